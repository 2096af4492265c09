package handlers

import (
	"bytes"
	"errors"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/alcostack/backend/internal/models"
	"gorm.io/gorm"
)

func TestRegisterEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	t.Run("POST /api/account/register creates user and seeds catalog associations", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/account/register", map[string]any{
			"username":  "Anna",
			"email":     "anna@test.com",
			"password":  "password123",
			"firstName": "Anna",
			"lastName":  "Schmidt",
			"gender":    "female",
			"address": map[string]any{
				"street":     "Main St 1",
				"city":       "Berlin",
				"postalCode": "10115",
				"country":    "Germany",
			},
		}, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusCreated)

		data := body["data"].(map[string]any)
		if data["token"] == nil {
			t.Fatalf("expected token in register response")
		}
		user := data["user"].(map[string]any)
		if user["username"] != "anna" {
			t.Fatalf("expected lowercased username, got %v", user["username"])
		}
		address, ok := user["address"].(map[string]any)
		if !ok || address["city"] != "Berlin" {
			t.Fatalf("expected embedded address in response, got %v", user["address"])
		}

		var dbUser models.User
		if err := env.db.First(&dbUser, "username = ?", "anna").Error; err != nil {
			t.Fatalf("expected user row: %v", err)
		}

		var associations []models.UserAlcohol
		if err := env.db.Where("user_id = ?", dbUser.ID).Find(&associations).Error; err != nil {
			t.Fatalf("failed loading associations: %v", err)
		}
		if int64(len(associations)) != catalogSize(t, env.db) {
			t.Fatalf("expected one association per catalog item, got %d", len(associations))
		}
		for _, a := range associations {
			if a.Volume != 0 || a.Rating != 0 {
				t.Fatalf("expected zeroed volume and rating, got %+v", a)
			}
		}
	})

	t.Run("POST /api/account/register duplicate username returns conflict", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/account/register", map[string]any{
			"username": "anna",
			"email":    "other@test.com",
			"password": "password123",
		}, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusConflict)
		assertEnvelopeError(t, body, "username or email already registered")
	})

	t.Run("POST /api/account/register duplicate with photo stores no object", func(t *testing.T) {
		buf := &bytes.Buffer{}
		writer := multipart.NewWriter(buf)
		_ = writer.WriteField("username", "anna")
		_ = writer.WriteField("email", "anna-two@test.com")
		_ = writer.WriteField("password", "password123")
		part, err := writer.CreateFormFile("photoFile", "dupe.png")
		if err != nil {
			t.Fatalf("failed creating multipart field: %v", err)
		}
		if _, err := part.Write([]byte("bytes")); err != nil {
			t.Fatalf("failed writing multipart content: %v", err)
		}
		if err := writer.Close(); err != nil {
			t.Fatalf("failed closing multipart writer: %v", err)
		}

		resp := performRequest(t, env.app, http.MethodPost, "/api/account/register", buf, map[string]string{
			"Content-Type": writer.FormDataContentType(),
		})
		assertStatus(t, resp, http.StatusConflict)

		if names := storedPhotoNames(t, env.store.Dir()); len(names) != 0 {
			t.Fatalf("expected no stored objects after failed registration, got %v", names)
		}
	})

	t.Run("POST /api/account/register short password rejected", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/account/register", map[string]any{
			"username": "bob",
			"email":    "bob@test.com",
			"password": "short",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
	})

	t.Run("POST /api/account/register invalid gender rejected", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/account/register", map[string]any{
			"username": "carl",
			"email":    "carl@test.com",
			"password": "password123",
			"gender":   "unknown",
		}, nil)
		assertStatus(t, resp, http.StatusBadRequest)
	})
}

// The register pre-check can race a concurrent insert; the handler relies on
// the unique index surfacing as gorm.ErrDuplicatedKey and maps it to 409.
func TestDuplicateUserInsertIsTranslated(t *testing.T) {
	env := setupTestEnv(t)
	createTestUser(t, env.db, "unique-name", "password123")

	clone := &models.User{
		Username:     "unique-name",
		Email:        "other-mail@test.com",
		PasswordHash: "irrelevant",
		Gender:       models.GenderOther,
	}
	err := env.db.Create(clone).Error
	if err == nil {
		t.Fatal("expected unique index violation")
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Fatalf("expected gorm.ErrDuplicatedKey, got %v", err)
	}
}

func TestLoginEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	createTestUser(t, env.db, "login-user", "password123")

	t.Run("POST /api/account/login returns token for valid credentials", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/account/login", map[string]any{
			"username": "login-user",
			"password": "password123",
		}, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		data := body["data"].(map[string]any)
		if data["token"] == nil {
			t.Fatalf("expected token in login response")
		}
	})

	t.Run("POST /api/account/login wrong password is unauthorized", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/account/login", map[string]any{
			"username": "login-user",
			"password": "wrong-password",
		}, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusUnauthorized)
		assertEnvelopeError(t, body, "invalid credentials")
	})

	t.Run("POST /api/account/login unknown user is unauthorized", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/account/login", map[string]any{
			"username": "nobody",
			"password": "password123",
		}, nil)
		assertStatus(t, resp, http.StatusUnauthorized)
	})
}

func TestAccountProfileEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	user, token := createTestUser(t, env.db, "profile-user", "password123")

	t.Run("GET /api/account/user returns the authenticated user", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/account/user", nil, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		data := body["data"].(map[string]any)
		u := data["user"].(map[string]any)
		if u["username"] != "profile-user" {
			t.Fatalf("expected profile-user, got %v", u["username"])
		}
	})

	t.Run("GET /api/account/user without token is unauthorized", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/account/user", nil, nil)
		assertStatus(t, resp, http.StatusUnauthorized)
	})

	t.Run("GET /api/account/:username returns the user", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/account/profile-user", nil, nil)
		assertStatus(t, resp, http.StatusOK)
	})

	t.Run("GET /api/account/:username unknown user is not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/account/ghost", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "user not found")
	})

	t.Run("GET /api/account lists users with pagination", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodGet, "/api/account/?page=1&limit=10", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		if _, ok := body["pagination"].(map[string]any); !ok {
			t.Fatalf("expected pagination object in list response")
		}
	})

	t.Run("PUT /api/account/update with mismatched email is forbidden and mutates nothing", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, "/api/account/update", map[string]any{
			"email":     "someone-else@test.com",
			"firstName": "Changed",
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusForbidden)
		assertEnvelopeError(t, body, "email does not match the authenticated user")

		var unchanged models.User
		if err := env.db.First(&unchanged, "id = ?", user.ID).Error; err != nil {
			t.Fatalf("failed reloading user: %v", err)
		}
		if unchanged.FirstName != "Test" {
			t.Fatalf("expected firstName untouched, got %q", unchanged.FirstName)
		}
	})

	t.Run("PUT /api/account/update overwrites profile fields", func(t *testing.T) {
		resp := performJSONRequest(t, env.app, http.MethodPut, "/api/account/update", map[string]any{
			"email":       user.Email,
			"firstName":   "Updated",
			"lastName":    "Name",
			"gender":      "male",
			"bio":         "hello",
			"dateOfBirth": "1990-05-20",
			"address": map[string]any{
				"street":  "New St 2",
				"city":    "Hamburg",
				"country": "Germany",
			},
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusOK)
		data := body["data"].(map[string]any)
		if data["firstName"] != "Updated" {
			t.Fatalf("expected updated firstName, got %v", data["firstName"])
		}
		address := data["address"].(map[string]any)
		if address["city"] != "Hamburg" {
			t.Fatalf("expected updated address, got %v", address)
		}
	})

	t.Run("PUT /api/account/update rename to taken username is a conflict", func(t *testing.T) {
		createTestUser(t, env.db, "taken-name", "password123")
		resp := performJSONRequest(t, env.app, http.MethodPut, "/api/account/update", map[string]any{
			"email":    user.Email,
			"username": "taken-name",
		}, authHeaders(token))
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusConflict)
		assertEnvelopeError(t, body, "username already taken")
	})
}

func TestDeleteUserEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	createTestUser(t, env.db, "delete-me", "password123")

	t.Run("DELETE /api/account/:username removes the user", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/account/delete-me", nil, nil)
		assertStatus(t, resp, http.StatusOK)
	})

	t.Run("second DELETE returns not found", func(t *testing.T) {
		resp := performRequest(t, env.app, http.MethodDelete, "/api/account/delete-me", nil, nil)
		body := decodeJSONMap(t, resp)
		assertStatus(t, resp, http.StatusNotFound)
		assertEnvelopeError(t, body, "user not found")
	})

	t.Run("delete removes association rows but keeps created parties", func(t *testing.T) {
		owner, ownerToken := createTestUser(t, env.db, "party-owner", "password123")
		resp := performJSONRequest(t, env.app, http.MethodPost, "/api/party/", map[string]any{
			"name": "Orphaned",
			"date": "2025-06-01T20:00:00Z",
		}, authHeaders(ownerToken))
		assertStatus(t, resp, http.StatusCreated)

		resp = performRequest(t, env.app, http.MethodDelete, "/api/account/party-owner", nil, nil)
		assertStatus(t, resp, http.StatusOK)

		var memberships int64
		env.db.Model(&models.UserParty{}).Where("user_id = ?", owner.ID).Count(&memberships)
		if memberships != 0 {
			t.Fatalf("expected membership rows removed, got %d", memberships)
		}

		var parties int64
		env.db.Model(&models.Party{}).Where("creator_id = ?", owner.ID).Count(&parties)
		if parties != 1 {
			t.Fatalf("expected created party to survive user deletion, got %d", parties)
		}
	})
}
