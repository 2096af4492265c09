package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/alcostack/backend/internal/middleware"
	"github.com/alcostack/backend/internal/models"
	"github.com/alcostack/backend/internal/services"
	"github.com/alcostack/backend/internal/storage"
	"github.com/alcostack/backend/pkg/logger"
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AccountHandler serves the /api/account surface: registration, login,
// profile management, user/alcohol associations and party membership.
type AccountHandler struct {
	DB           *gorm.DB
	Audit        *services.AuditService
	Store        storage.PhotoStore
	UserAlcohols *services.UserAlcoholService
	UserParties  *services.UserPartyService
}

func NewAccountHandler(db *gorm.DB, audit *services.AuditService, store storage.PhotoStore) *AccountHandler {
	return &AccountHandler{
		DB:           db,
		Audit:        audit,
		Store:        store,
		UserAlcohols: services.NewUserAlcoholService(db),
		UserParties:  services.NewUserPartyService(db),
	}
}

type addressRequest struct {
	Street     string `json:"street" form:"street"`
	City       string `json:"city" form:"city"`
	PostalCode string `json:"postalCode" form:"postalCode"`
	Country    string `json:"country" form:"country"`
}

type registerRequest struct {
	Username    string          `json:"username" form:"username"`
	Email       string          `json:"email" form:"email"`
	Password    string          `json:"password" form:"password"`
	FirstName   string          `json:"firstName" form:"firstName"`
	LastName    string          `json:"lastName" form:"lastName"`
	Gender      string          `json:"gender" form:"gender"`
	DateOfBirth string          `json:"dateOfBirth" form:"dateOfBirth"`
	Phone       string          `json:"phone" form:"phone"`
	Bio         string          `json:"bio" form:"bio"`
	Address     *addressRequest `json:"address"`
}

type profileResponse struct {
	*models.User
	PhotoSrc           *string `json:"photoSrc,omitempty"`
	BackgroundPhotoSrc *string `json:"backgroundPhotoSrc,omitempty"`
}

func (h *AccountHandler) profile(c *fiber.Ctx, user *models.User) profileResponse {
	resp := profileResponse{User: user}
	if user.Photo != nil {
		url := h.Store.PublicURL(c.BaseURL(), *user.Photo)
		resp.PhotoSrc = &url
	}
	if user.BackgroundPhoto != nil {
		url := h.Store.PublicURL(c.BaseURL(), *user.BackgroundPhoto)
		resp.BackgroundPhotoSrc = &url
	}
	return resp
}

func parseDateOfBirth(value string) (*time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

func optional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Register creates the user, the optional embedded address and the seeded
// catalog associations in one transaction; any failure rolls the whole
// sequence back.
func (h *AccountHandler) Register(c *fiber.Ctx) error {
	var req registerRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Username == "" {
		return utils.Error(c, fiber.StatusBadRequest, "username is required")
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		return utils.Error(c, fiber.StatusBadRequest, "invalid email")
	}
	if len(req.Password) < 8 {
		return utils.Error(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	gender := models.GenderOther
	if req.Gender != "" {
		gender = models.Gender(req.Gender)
		if !gender.Valid() {
			return utils.Error(c, fiber.StatusBadRequest, "invalid gender")
		}
	}

	dateOfBirth, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
	}

	var existing models.User
	if err := h.DB.First(&existing, "username = ? OR email = ?", req.Username, req.Email).Error; err == nil {
		return utils.Error(c, fiber.StatusConflict, "username or email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return utils.Error(c, fiber.StatusInternalServerError, "failed checking existing user")
	}

	passwordHash, err := utils.HashPassword(req.Password)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed to hash password")
	}

	user := models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Gender:       gender,
		DateOfBirth:  dateOfBirth,
		Phone:        optional(req.Phone),
		Bio:          optional(req.Bio),
	}

	if file, err := c.FormFile("photoFile"); err == nil && file != nil {
		name, saveErr := savePhoto(c, h.Store, file)
		if saveErr != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed saving photo")
		}
		user.Photo = &name
	}
	if file, err := c.FormFile("backgroundPhotoFile"); err == nil && file != nil {
		name, saveErr := savePhoto(c, h.Store, file)
		if saveErr != nil {
			return utils.Error(c, fiber.StatusInternalServerError, "failed saving background photo")
		}
		user.BackgroundPhoto = &name
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}

		if req.Address != nil {
			address := models.Address{
				UserID:     user.ID,
				Street:     strings.TrimSpace(req.Address.Street),
				City:       strings.TrimSpace(req.Address.City),
				PostalCode: strings.TrimSpace(req.Address.PostalCode),
				Country:    strings.TrimSpace(req.Address.Country),
			}
			if err := tx.Create(&address).Error; err != nil {
				return err
			}
			user.Address = &address
		}

		return h.UserAlcohols.SeedAll(tx, user.Username)
	})
	if err != nil {
		// Saved photo objects must not outlive a rolled-back registration.
		if user.Photo != nil {
			_ = h.Store.Delete(c.Context(), *user.Photo)
		}
		if user.BackgroundPhoto != nil {
			_ = h.Store.Delete(c.Context(), *user.BackgroundPhoto)
		}
		// A concurrent registration can slip past the pre-check and hit the
		// unique index inside the transaction.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return utils.Error(c, fiber.StatusConflict, "username or email already registered")
		}
		logger.Error("register_failed", err, map[string]interface{}{
			"username": req.Username,
		})
		return utils.Error(c, fiber.StatusInternalServerError, "failed creating user")
	}

	logger.InfoWithUser(user.ID.String(), "user_registered", map[string]interface{}{
		"username": user.Username,
		"email":    user.Email,
	})

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &user.ID,
		Action:       "user.register",
		ResourceType: "user",
		ResourceID:   &user.ID,
		Details:      map[string]interface{}{"username": user.Username},
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	token, err := utils.GenerateToken(&user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	return utils.Success(c, fiber.StatusCreated, fiber.Map{"token": token, "user": h.profile(c, &user)})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	if req.Username == "" || req.Password == "" {
		return utils.Error(c, fiber.StatusBadRequest, "username and password are required")
	}

	var user models.User
	if err := h.DB.Preload("Address").First(&user, "username = ?", req.Username).Error; err != nil {
		logger.Warn("login_failed_user_not_found", map[string]interface{}{
			"username": req.Username,
			"ip":       c.IP(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	if !utils.CheckPassword(req.Password, user.PasswordHash) {
		logger.WarnWithUser(user.ID.String(), "login_failed_invalid_password", map[string]interface{}{
			"username": req.Username,
			"ip":       c.IP(),
		})
		return utils.Error(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &user.ID,
		Action:       "user.login",
		ResourceType: "user",
		ResourceID:   &user.ID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	token, err := utils.GenerateToken(&user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"token": token, "user": h.profile(c, &user)})
}

func (h *AccountHandler) Me(c *fiber.Ctx) error {
	user := middleware.GetCurrentUser(c)
	if user == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed generating token")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"token": token, "user": h.profile(c, user)})
}

func (h *AccountHandler) List(c *fiber.Ctx) error {
	p := utils.ParsePagination(c)

	query := h.DB.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed counting users")
	}

	var users []models.User
	if err := utils.ApplyPagination(query.Order("created_at DESC"), p).Find(&users).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed listing users")
	}

	return utils.Paginated(c, users, p.Page, p.Limit, total)
}

func (h *AccountHandler) GetByUsername(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))

	var user models.User
	if err := h.DB.Preload("Address").First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	return utils.Success(c, fiber.StatusOK, h.profile(c, &user))
}

type updateProfileRequest struct {
	Username    string          `json:"username"`
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	LastName    string          `json:"lastName"`
	Gender      string          `json:"gender"`
	DateOfBirth string          `json:"dateOfBirth"`
	Phone       string          `json:"phone"`
	Bio         string          `json:"bio"`
	Address     *addressRequest `json:"address"`
}

// Update overwrites the caller's mutable profile fields. The request email
// must match the authenticated user's email; a username change goes through
// the explicit rename path with uniqueness re-checked. Fields and address
// apply atomically per user.
func (h *AccountHandler) Update(c *fiber.Ctx) error {
	currentUser := middleware.GetCurrentUser(c)
	if currentUser == nil {
		return utils.Error(c, fiber.StatusUnauthorized, "unauthorized")
	}

	var req updateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "invalid request body")
	}

	req.Username = strings.ToLower(strings.TrimSpace(req.Username))
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if req.Email != currentUser.Email {
		return utils.Error(c, fiber.StatusForbidden, "email does not match the authenticated user")
	}

	gender := currentUser.Gender
	if req.Gender != "" {
		gender = models.Gender(req.Gender)
		if !gender.Valid() {
			return utils.Error(c, fiber.StatusBadRequest, "invalid gender")
		}
	}

	dateOfBirth, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return utils.Error(c, fiber.StatusBadRequest, "dateOfBirth must be YYYY-MM-DD")
	}

	if req.Username != "" && req.Username != currentUser.Username {
		var taken models.User
		if err := h.DB.First(&taken, "username = ?", req.Username).Error; err == nil {
			return utils.Error(c, fiber.StatusConflict, "username already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusInternalServerError, "failed checking username")
		}
	}

	err = h.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"first_name":    strings.TrimSpace(req.FirstName),
			"last_name":     strings.TrimSpace(req.LastName),
			"gender":        gender,
			"phone":         optional(req.Phone),
			"bio":           optional(req.Bio),
			"date_of_birth": dateOfBirth,
		}
		if req.Username != "" {
			updates["username"] = req.Username
		}

		if err := tx.Model(&models.User{}).Where("id = ?", currentUser.ID).Updates(updates).Error; err != nil {
			return err
		}

		if req.Address != nil {
			address := models.Address{
				UserID:     currentUser.ID,
				Street:     strings.TrimSpace(req.Address.Street),
				City:       strings.TrimSpace(req.Address.City),
				PostalCode: strings.TrimSpace(req.Address.PostalCode),
				Country:    strings.TrimSpace(req.Address.Country),
			}
			if currentUser.Address != nil {
				address.ID = currentUser.Address.ID
				return tx.Model(&models.Address{}).Where("id = ?", address.ID).Updates(map[string]interface{}{
					"street":      address.Street,
					"city":        address.City,
					"postal_code": address.PostalCode,
					"country":     address.Country,
				}).Error
			}
			return tx.Create(&address).Error
		}
		return nil
	})
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed updating profile")
	}

	var updated models.User
	if err := h.DB.Preload("Address").First(&updated, "id = ?", currentUser.ID).Error; err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching updated user")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &currentUser.ID,
		Action:       "user.profile_update",
		ResourceType: "user",
		ResourceID:   &currentUser.ID,
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, h.profile(c, &updated))
}

// Delete removes the user row along with its address and association rows.
// Parties the user created are left in place.
func (h *AccountHandler) Delete(c *fiber.Ctx) error {
	username := strings.ToLower(strings.TrimSpace(c.Params("username")))

	var user models.User
	if err := h.DB.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.Error(c, fiber.StatusNotFound, "user not found")
		}
		return utils.Error(c, fiber.StatusInternalServerError, "failed fetching user")
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Address{}, "user_id = ?", user.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.UserAlcohol{}, "user_id = ?", user.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.UserParty{}, "user_id = ?", user.ID).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, "id = ?", user.ID).Error
	})
	if err != nil {
		return utils.Error(c, fiber.StatusInternalServerError, "failed deleting user")
	}

	h.Audit.LogAsync(services.AuditEntry{
		UserID:       &user.ID,
		Action:       "user.delete",
		ResourceType: "user",
		ResourceID:   &user.ID,
		Details:      map[string]interface{}{"username": username},
		IPAddress:    c.IP(),
		RequestID:    getRequestID(c),
	})

	return utils.Success(c, fiber.StatusOK, fiber.Map{"message": "user deleted"})
}
