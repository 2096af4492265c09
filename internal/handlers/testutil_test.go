package handlers

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alcostack/backend/internal/database"
	"github.com/alcostack/backend/internal/middleware"
	"github.com/alcostack/backend/internal/models"
	"github.com/alcostack/backend/internal/services"
	"github.com/alcostack/backend/internal/storage"
	"github.com/alcostack/backend/pkg/logger"
	"github.com/alcostack/backend/pkg/utils"
	gosqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

type testEnv struct {
	app   *fiber.App
	db    *gorm.DB
	store *storage.LocalStore
}

var testSetupOnce sync.Once

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	testSetupOnce.Do(func() {
		gosqlite.MustRegisterScalarFunction("NOW", 0, func(ctx *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
			return time.Now().UTC(), nil
		})
		logger.Init()
		utils.ConfigureJWT("test-secret", 24)
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed opening in-memory sqlite database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed getting sql.DB from gorm: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed automigrating models: %v", err)
	}
	if err := database.SeedCatalog(db); err != nil {
		t.Fatalf("failed seeding alcohol catalog: %v", err)
	}

	store, err := storage.NewLocalStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed creating local photo store: %v", err)
	}

	auditService := services.NewAuditService(db)

	accountHandler := NewAccountHandler(db, auditService, store)
	partiesHandler := NewPartiesHandler(db, auditService, store)
	alcoholsHandler := NewAlcoholsHandler(db)
	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 20 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	app.Static("/uploads", store.Dir())

	api := app.Group("/api")

	account := api.Group("/account")
	account.Post("/login", accountHandler.Login)
	account.Post("/register", accountHandler.Register)
	account.Get("/", accountHandler.List)
	account.Get("/user", authMiddleware.RequireAuth, accountHandler.Me)
	account.Put("/update", authMiddleware.RequireAuth, accountHandler.Update)
	account.Patch("/updatePhoto", authMiddleware.RequireAuth, accountHandler.UpdatePhoto)
	account.Get("/:partyId/users", accountHandler.PartyUsers)
	account.Get("/:username/alcohols", accountHandler.ListAlcohols)
	account.Post("/:username/addAlcohol/:alcoholId", accountHandler.AddAlcohol)
	account.Patch("/:username/update-volume/:alcoholId", accountHandler.UpdateVolume)
	account.Patch("/:username/update-rating/:alcoholId", accountHandler.UpdateRating)
	account.Delete("/:username/delete/:alcoholId", accountHandler.DeleteAlcohol)
	account.Delete("/:partyId/leaveParty", authMiddleware.RequireAuth, accountHandler.LeaveParty)
	account.Get("/:username", accountHandler.GetByUsername)
	account.Delete("/:username", accountHandler.Delete)

	party := api.Group("/party", authMiddleware.RequireAuth)
	party.Post("/", partiesHandler.Create)
	party.Get("/", partiesHandler.List)
	party.Post("/:partyId/join", partiesHandler.Join)
	party.Patch("/:partyId/updatePhoto", partiesHandler.UpdatePhoto)
	party.Get("/:partyId/alcohols", partiesHandler.ListAlcohols)
	party.Post("/:partyId/addAlcohol/:alcoholId", partiesHandler.AddAlcohol)
	party.Patch("/:partyId/update-volume/:alcoholId", partiesHandler.UpdateAlcoholVolume)
	party.Patch("/:partyId/update-rank/:alcoholId", partiesHandler.UpdateAlcoholRank)
	party.Delete("/:partyId/delete/:alcoholId", partiesHandler.DeleteAlcohol)
	party.Get("/:partyId", partiesHandler.Get)
	party.Put("/:partyId", partiesHandler.Update)

	alcohol := api.Group("/alcohol")
	alcohol.Get("/", alcoholsHandler.List)
	alcohol.Get("/category/:category", alcoholsHandler.ListByCategory)
	alcohol.Post("/", alcoholsHandler.Create)
	alcohol.Get("/:id", alcoholsHandler.Get)
	alcohol.Delete("/:id", alcoholsHandler.Delete)

	return &testEnv{app: app, db: db, store: store}
}

// createTestUser inserts a user directly, without the registration seeding.
func createTestUser(t *testing.T, db *gorm.DB, username, password string) (*models.User, string) {
	t.Helper()

	hash, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("failed hashing password: %v", err)
	}

	user := &models.User{
		Username:     username,
		Email:        username + "@test.com",
		PasswordHash: hash,
		FirstName:    "Test",
		LastName:     "User",
		Gender:       models.GenderOther,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed creating test user: %v", err)
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		t.Fatalf("failed generating auth token: %v", err)
	}

	return user, token
}

func authHeaders(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func performRequest(t *testing.T, app *fiber.App, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, path, body)
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}

	return resp
}

func performJSONRequest(t *testing.T, app *fiber.App, method, path string, payload any, headers map[string]string) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("failed to marshal payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	requestHeaders := map[string]string{}
	for key, value := range headers {
		requestHeaders[key] = value
	}
	if payload != nil {
		requestHeaders["Content-Type"] = "application/json"
	}

	return performRequest(t, app, method, path, body, requestHeaders)
}

func decodeJSONMap(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed reading response body: %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("failed decoding JSON response: %v body=%q", err, string(raw))
	}

	return payload
}

func assertStatus(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Fatalf("expected status %d, got %d", expected, resp.StatusCode)
	}
}

func assertEnvelopeError(t *testing.T, body map[string]any, expected string) {
	t.Helper()
	if success, _ := body["success"].(bool); success {
		t.Fatalf("expected success=false, got %+v", body)
	}
	if got, _ := body["error"].(string); got != expected {
		t.Fatalf("expected error %q, got %q", expected, got)
	}
}

func catalogSize(t *testing.T, db *gorm.DB) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.Alcohol{}).Count(&count).Error; err != nil {
		t.Fatalf("failed counting catalog: %v", err)
	}
	return count
}
