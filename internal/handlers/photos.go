package handlers

import (
	"errors"
	"mime/multipart"

	"github.com/alcostack/backend/internal/middleware"
	"github.com/alcostack/backend/internal/models"
	"github.com/alcostack/backend/internal/services"
	"github.com/alcostack/backend/internal/storage"
	"github.com/alcostack/backend/pkg/logger"
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func savePhoto(c *fiber.Ctx, store storage.PhotoStore, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := storage.ObjectName(file.Filename)
	contentType := file.Header.Get("Content-Type")
	if err := store.Save(c.Context(), name, src, file.Size, contentType); err != nil {
		return "", err
	}
	return name, nil
}

// UpdatePhoto replaces the caller's profile and/or background photo. The
// previous object is deleted from the store before the reference changes.
func (h *AccountHandler) UpdatePhoto(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	photoFile, _ := c.FormFile("photoFile")
	backgroundFile, _ := c.FormFile("backgroundPhotoFile")
	if photoFile == nil && backgroundFile == nil {
		return utils.Error(c, fiber.StatusBadRequest, "no photo file provided")
	}

	updates := map[string]interface{}{}

	if photoFile != nil {
		if currentUser.Photo != nil {
			if err := h.Store.Delete(c.Context(), *currentUser.Photo); err != nil {
				logger.Warn("photo_delete_failed", map[string]interface{}{
					"object_name": *currentUser.Photo,
				})
			}
		}
		name, err := savePhoto(c, h.Store, photoFile)
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed saving photo")
		}
		updates["photo"] = name
	}

	if backgroundFile != nil {
		if currentUser.BackgroundPhoto != nil {
			if err := h.Store.Delete(c.Context(), *currentUser.BackgroundPhoto); err != nil {
				logger.Warn("photo_delete_failed", map[string]interface{}{
					"object_name": *currentUser.BackgroundPhoto,
				})
			}
		}
		name, err := savePhoto(c, h.Store, backgroundFile)
		if err != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed saving background photo")
		}
		updates["background_photo"] = name
	}

	if err := h.DB.Model(&models.User{}).Where("id = ?", currentUser.ID).Updates(updates).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating photo references")
	}

	var updated models.User
	if err := h.DB.Preload("Address").First(&updated, "id = ?", currentUser.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching updated user")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "user.photo_update",
		ResourceType: "user",
		ResourceID:   &currentUser.ID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, h.profile(c, &updated))
}

// UpdatePhoto replaces a party's photo. Creator only; the previous object is
// deleted from the store before the reference changes.
func (h *PartiesHandler) UpdatePhoto(c *fiber.Ctx) error {
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

	photoFile, _ := c.FormFile("photoFile")
	if photoFile == nil {
		return utils.Error(c, fiber.StatusBadRequest, "no photo file provided")
	}

	if party.Photo != nil {
		if err := h.Store.Delete(c.Context(), *party.Photo); err != nil {
			logger.Warn("photo_delete_failed", map[string]interface{}{
				"object_name": *party.Photo,
			})
		}
	}

	name, err := savePhoto(c, h.Store, photoFile)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed saving photo")
	}

	if err := h.DB.Model(&models.Party{}).Where("id = ?", partyID).Update("photo", name).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating photo reference")
	}
	party.Photo = &name

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "party.photo_update",
		ResourceType: "party",
		ResourceID:   &partyID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, h.view(c, &party, currentUser.ID))
}
