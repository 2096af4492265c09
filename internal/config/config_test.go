package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.DB.Host != "localhost" || cfg.DB.Port != "5432" {
		t.Fatalf("unexpected database defaults: %+v", cfg.DB)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default server port 8080, got %q", cfg.Server.Port)
	}
	if cfg.JWT.ExpirationHours != 24 {
		t.Fatalf("expected default expiration of 24 hours, got %d", cfg.JWT.ExpirationHours)
	}
	if cfg.Uploads.Backend != "local" || cfg.Uploads.Dir != "Uploads" {
		t.Fatalf("unexpected uploads defaults: %+v", cfg.Uploads)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_EXPIRATION_HOURS", "72")
	t.Setenv("UPLOADS_BACKEND", "minio")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	if cfg.DB.Host != "db.internal" {
		t.Fatalf("expected env override for host, got %q", cfg.DB.Host)
	}
	if cfg.JWT.ExpirationHours != 72 {
		t.Fatalf("expected 72 hour expiration, got %d", cfg.JWT.ExpirationHours)
	}
	if cfg.Uploads.Backend != "minio" {
		t.Fatalf("expected minio backend, got %q", cfg.Uploads.Backend)
	}
	if !cfg.MinIO.UseSSL {
		t.Fatal("expected MinIO SSL enabled")
	}
}

func TestInvalidNumericEnvFallsBack(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")

	cfg := Load()
	if cfg.JWT.ExpirationHours != 24 {
		t.Fatalf("expected fallback expiration, got %d", cfg.JWT.ExpirationHours)
	}
}

func TestMinIOPublicEndpointFallsBackToEndpoint(t *testing.T) {
	t.Setenv("MINIO_ENDPOINT", "minio.internal:9000")

	cfg := Load()
	if cfg.MinIO.PublicEndpoint != "minio.internal:9000" {
		t.Fatalf("expected public endpoint to mirror endpoint, got %q", cfg.MinIO.PublicEndpoint)
	}
}
