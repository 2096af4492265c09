package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/alcostack/backend/internal/middleware"
	"github.com/alcostack/backend/internal/models"
	"github.com/alcostack/backend/internal/services"
	"github.com/alcostack/backend/internal/storage"
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartiesHandler struct {
	DB            *gorm.DB
	Audit         *services.AuditService
	Store         storage.PhotoStore
	Members       *services.UserPartyService
	PartyAlcohols *services.PartyAlcoholService
}

func NewPartiesHandler(db *gorm.DB, audit *services.AuditService, store storage.PhotoStore) *PartiesHandler {
	return &PartiesHandler{
		DB:            db,
		Audit:         audit,
		Store:         store,
		Members:       services.NewUserPartyService(db),
		PartyAlcohols: services.NewPartyAlcoholService(db),
	}
}

type partyResponse struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Description *string            `json:"description,omitempty"`
	Photo       *string            `json:"photo,omitempty"`
	PhotoSrc    *string            `json:"photoSrc,omitempty"`
	Date        time.Time          `json:"date"`
	Location    *string            `json:"location,omitempty"`
	Liquors     bool               `json:"liquors"`
	LowAlcohol  bool               `json:"lowAlcohol"`
	MidAlcohol  bool               `json:"midAlcohol"`
	HighAlcohol bool               `json:"highAlcohol"`
	RankLimit   int                `json:"rankLimit"`
	Status      models.PartyStatus `json:"status"`
	CreatedByMe bool               `json:"createdByMe"`
}

type partyListItem struct {
	PartyID     uuid.UUID `json:"partyId"`
	Name        string    `json:"name"`
	Description *string   `json:"description,omitempty"`
	Date        time.Time `json:"date"`
	CreatedByMe bool      `json:"createdByMe"`
}

// mapParty is a pure projection of the entity onto its response shape.
func mapParty(party *models.Party, viewerID uuid.UUID) partyResponse {
	return partyResponse{
		ID:          party.ID,
		Name:        party.Name,
		Description: party.Description,
		Photo:       party.Photo,
		Date:        party.Date,
		Location:    party.Location,
		Liquors:     party.Liquors,
		LowAlcohol:  party.LowAlcohol,
		MidAlcohol:  party.MidAlcohol,
		HighAlcohol: party.HighAlcohol,
		RankLimit:   party.RankLimit,
		Status:      party.Status,
		CreatedByMe: party.CreatorID == viewerID,
	}
}

func mapPartyListItem(party *models.Party, viewerID uuid.UUID) partyListItem {
	return partyListItem{
		PartyID:     party.ID,
		Name:        party.Name,
		Description: party.Description,
		Date:        party.Date,
		CreatedByMe: party.CreatorID == viewerID,
	}
}

// view adds the resolved photo URL on top of the pure projection.
func (h *PartiesHandler) view(c *fiber.Ctx, party *models.Party, viewerID uuid.UUID) partyResponse {
	resp := mapParty(party, viewerID)
	if party.Photo != nil {
		url := h.Store.PublicURL(c.BaseURL(), *party.Photo)
		resp.PhotoSrc = &url
	}
	return resp
}

// parsePartyDate accepts the two wire formats clients send: a full RFC3339
// timestamp or a bare YYYY-MM-DD day.
func parsePartyDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// createPartyRequest is deliberately a strict subset of updatePartyRequest:
// category flags, rank limit and status are only settable through update.
type createPartyRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Date        string  `json:"date"`
	Location    *string `json:"location"`
}

func (h *PartiesHandler) Create(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req createPartyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		return utils.Error(c, fiber.StatusBadRequest, "date is required")
	}
	date, err := parsePartyDate(req.Date)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "date must be RFC3339 or YYYY-MM-DD")
	}

	party := models.Party{
		Name:        req.Name,
		Description: req.Description,
		Date:        date,
		Location:    req.Location,
		Status:      models.PartyStatusCreated,
		CreatorID:   currentUser.ID,
	}

	// The creator is enrolled as a member in the same transaction.
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&party).Error; err != nil {
			return err
		}
		membership := models.UserParty{UserID: currentUser.ID, PartyID: party.ID}
		return tx.Create(&membership).Error
	})
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating party")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "party.create",
		ResourceType: "party",
		ResourceID:   &party.ID,
		Details:      map[string]interface{}{"name": party.Name},
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, h.view(c, &party, currentUser.ID))
}

func (h *PartiesHandler) List(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var parties []models.Party
	if err := h.DB.Order("date ASC").Find(&parties).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing parties")
	}

	items := make([]partyListItem, 0, len(parties))
	for i := range parties {
		items = append(items, mapPartyListItem(&parties[i], currentUser.ID))
	}

	return utils.Success(c, fiber.StatusOK, items)
}

func (h *PartiesHandler) Get(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}

	var party models.Party
	if err := h.DB.First(&party, "id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "party not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching party")
	}

	return utils.Success(c, fiber.StatusOK, h.view(c, &party, currentUser.ID))
}

type updatePartyRequest struct {
	Name        string              `json:"name"`
	Description *string             `json:"description"`
	Date        string              `json:"date"`
	Location    *string             `json:"location"`
	Liquors     bool                `json:"liquors"`
	LowAlcohol  bool                `json:"lowAlcohol"`
	MidAlcohol  bool                `json:"midAlcohol"`
	HighAlcohol bool                `json:"highAlcohol"`
	RankLimit   int                 `json:"rankLimit"`
	Status      *models.PartyStatus `json:"status"`
}

func (h *PartiesHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}

	var party models.Party
	if err := h.DB.First(&party, "id = ?", partyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "party not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching party")
	}

	if party.CreatorID != currentUser.ID {
		return utils.Error(c, fiber.StatusForbidden, "only the creator can update a party")
	}

	var req updatePartyRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}
	if strings.TrimSpace(req.Date) == "" {
		return utils.Error(c, fiber.StatusBadRequest, "date is required")
	}
	date, err := parsePartyDate(req.Date)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "date must be RFC3339 or YYYY-MM-DD")
	}
	if req.RankLimit < 0 {
		return utils.Error(c, fiber.StatusBadRequest, "rankLimit must not be negative")
	}

	status := models.PartyStatusUpdated
	if req.Status != nil {
		if *req.Status != models.PartyStatusCreated && *req.Status != models.PartyStatusUpdated {
			return utils.Error(c, fiber.StatusBadRequest, "invalid status")
		}
		status = *req.Status
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"description":  req.Description,
		"date":         date,
		"location":     req.Location,
		"liquors":      req.Liquors,
		"low_alcohol":  req.LowAlcohol,
		"mid_alcohol":  req.MidAlcohol,
		"high_alcohol": req.HighAlcohol,
		"rank_limit":   req.RankLimit,
		"status":       status,
	}

	if err := h.DB.Model(&models.Party{}).Where("id = ?", partyID).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating party")
	}

	if err := h.DB.First(&party, "id = ?", partyID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching updated party")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "party.update",
		ResourceType: "party",
		ResourceID:   &partyID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, h.view(c, &party, currentUser.ID))
}

func (h *PartiesHandler) Join(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	partyID, err := parseUUID(c.Params("partyId"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid party id")
	}

	row, err := h.Members.Join(currentUser, partyID)
	if err != nil {
		return serviceError(c, err, "failed joining party")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "party.join",
		ResourceType: "party",
		ResourceID:   &partyID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusCreated, row)
}
