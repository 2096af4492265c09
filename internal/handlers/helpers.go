package handlers

import (
	"errors"
	"strings"

	"github.com/alcostack/backend/internal/services"
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

func parseUUID(value string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(value))
}

func getRequestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestID").(string); ok {
		return id
	}
	return ""
}

// serviceError translates domain sentinel errors into HTTP responses. The
// fallback message covers unexpected persistence failures.
func serviceError(c *fiber.Ctx, err error, fallback string) error {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrAlcoholNotFound),
		errors.Is(err, services.ErrPartyNotFound),
		errors.Is(err, services.ErrAssociationNotFound),
		errors.Is(err, services.ErrMembershipNotFound):
		return utils.Error(c, fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrAssociationExists),
		errors.Is(err, services.ErrMembershipExists):
		return utils.Error(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, services.ErrRatingOutOfRange),
		errors.Is(err, services.ErrNegativeVolume):
		return utils.Error(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrCreatorCannotLeave):
		return utils.Error(c, fiber.StatusForbidden, err.Error())
	default:
		return utils.Error(c, fiber.StatusInternalServerError, fallback)
	}
}
