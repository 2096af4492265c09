package handlers

import (
	"errors"
	"strings"

	"github.com/alcostack/backend/internal/models"
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AlcoholsHandler serves the read-mostly drink catalog.
type AlcoholsHandler struct {
	DB *gorm.DB
}

func NewAlcoholsHandler(db *gorm.DB) *AlcoholsHandler {
	return &AlcoholsHandler{DB: db}
}

func (h *AlcoholsHandler) List(c *fiber.Ctx) error {
	var alcohols []models.Alcohol
	if err := h.DB.Order("name ASC").Find(&alcohols).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing alcohols")
	}
	return utils.Success(c, fiber.StatusOK, alcohols)
}

func (h *AlcoholsHandler) ListByCategory(c *fiber.Ctx) error {
	category := models.AlcoholCategory(strings.TrimSpace(c.Params("category")))
	if !category.Valid() {
		return utils.Error(c, fiber.StatusBadRequest, "invalid category")
	}

	var alcohols []models.Alcohol
	if err := h.DB.Where("category = ?", category).Order("name ASC").Find(&alcohols).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing alcohols")
	}
	return utils.Success(c, fiber.StatusOK, alcohols)
}

func (h *AlcoholsHandler) Get(c *fiber.Ctx) error {
	alcoholID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	var alcohol models.Alcohol
	if err := h.DB.First(&alcohol, "id = ?", alcoholID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "alcohol not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching alcohol")
	}
	return utils.Success(c, fiber.StatusOK, alcohol)
}

type createAlcoholRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (h *AlcoholsHandler) Create(c *fiber.Ctx) error {
	var req createAlcoholRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return utils.Error(c, fiber.StatusBadRequest, "name is required")
	}

	category := models.AlcoholCategory(req.Category)
	if !category.Valid() {
		return utils.Error(c, fiber.StatusBadRequest, "invalid category")
	}

	var existing models.Alcohol
	if err := h.DB.First(&existing, "name = ?", req.Name).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "alcohol already in catalog")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking catalog")
	}

	alcohol := models.Alcohol{Name: req.Name, Category: category}
	if err := h.DB.Create(&alcohol).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating alcohol")
	}

	return utils.Success(c, fiber.StatusCreated, alcohol)
}

func (h *AlcoholsHandler) Delete(c *fiber.Ctx) error {
	alcoholID, err := parseUUID(c.Params("id"))
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid alcohol id")
	}

	result := h.DB.Delete(&models.Alcohol{}, "id = ?", alcoholID)
	if result.Error != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting alcohol")
	}
	if result.RowsAffected == 0 {
		return utils.Error(c, fiber.StatusNotFound, "alcohol not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "alcohol deleted"})
}
