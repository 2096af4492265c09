package handlers

import (
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

func (h *PartiesHandler) AddAlcohol(c *fiber.Ctx) error {
	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	row, err := h.PartyAlcohols.Add(partyID, alcoholID)
	if err != nil {
		return serviceError(c, err, "failed adding alcohol to party")
	}

	return utils.Success(c, fiber.StatusCreated, row)
}

func (h *PartiesHandler) ListAlcohols(c *fiber.Ctx) error {
	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}

	rows, err := h.PartyAlcohols.ListByParty(partyID)
	if err != nil {
		return serviceError(c, err, "failed listing party alcohols")
	}

	return utils.Success(c, fiber.StatusOK, rows)
}

func (h *PartiesHandler) UpdateAlcoholVolume(c *fiber.Ctx) error {
	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	var req volumeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	row, err := h.PartyAlcohols.UpdateVolume(partyID, alcoholID, req.Volume)
	if err != nil {
		return serviceError(c, err, "failed updating volume")
	}

	return utils.Success(c, fiber.StatusOK, row)
}

type rankRequest struct {
	Rank int `json:"rank"`
}

func (h *PartiesHandler) UpdateAlcoholRank(c *fiber.Ctx) error {
	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	var req rankRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	row, err := h.PartyAlcohols.UpdateRank(partyID, alcoholID, req.Rank)
	if err != nil {
		return serviceError(c, err, "failed updating rank")
	}

	return utils.Success(c, fiber.StatusOK, row)
}

func (h *PartiesHandler) DeleteAlcohol(c *fiber.Ctx) error {
	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}
	alcoholID, err := parseUUID(c.Params("alcoholId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	row, err := h.PartyAlcohols.Delete(partyID, alcoholID)
	if err != nil {
		return serviceError(c, err, "failed deleting party alcohol")
	}

	return utils.Success(c, fiber.StatusOK, row)
}
