package handlers

import (
	"strings"

	"github.com/alcostack/backend/internal/middleware"
	"github.com/alcostack/backend/internal/services"
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func (h *AccountHandler) AddAlcohol(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	row, err := h.UserAlcohols.Add(username, alcoholID)
	if err != nil {
		return serviceError(c, err, "failed adding alcohol")
	}

	return utils.Success(c, fiber.StatusCreated, row)
}

type volumeRequest struct {
	Volume int `json:"volume"`
}

func (h *AccountHandler) UpdateVolume(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	var req volumeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	row, err := h.UserAlcohols.UpdateVolume(username, alcoholID, req.Volume)
	if err != nil {
		return serviceError(c, err, "failed updating volume")
	}

	return utils.Success(c, fiber.StatusOK, row)
}

type ratingRequest struct {
	Rating int `json:"rating"`
}

func (h *AccountHandler) UpdateRating(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	var req ratingRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	row, err := h.UserAlcohols.UpdateRating(username, alcoholID, req.Rating)
	if err != nil {
		return serviceError(c, err, "failed updating rating")
	}

	return utils.Success(c, fiber.StatusOK, row)
}

func (h *AccountHandler) DeleteAlcohol(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	row, err := h.UserAlcohols.Delete(username, alcoholID)
	if err != nil {
		return serviceError(c, err, "failed deleting alcohol")
	}

	return utils.Success(c, fiber.StatusOK, row)
}

func (h *AccountHandler) ListAlcohols(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))

	rows, err := h.UserAlcohols.ListByUser(username)
	if err != nil {
		return serviceError(c, err, "failed listing alcohols")
	}

	return utils.Success(c, fiber.StatusOK, rows)
}

func (h *AccountHandler) PartyUsers(c *fiber.Ctx) error {
	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}

	users, err := h.UserParties.UsersByParty(partyID)
	if err != nil {
		return serviceError(c, err, "failed listing party members")
	}

	return utils.Success(c, fiber.StatusOK, users)
}

func (h *AccountHandler) LeaveParty(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}

	row, err := h.UserParties.Leave(currentUser, partyID)
	if err != nil {
		return serviceError(c, err, "failed leaving party")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "party.leave",
		ResourceType: "party",
		ResourceID:   &partyID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, row)
}
