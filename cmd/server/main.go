package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alcostack/backend/internal/config"
	"github.com/alcostack/backend/internal/database"
	"github.com/alcostack/backend/internal/handlers"
	"github.com/alcostack/backend/internal/middleware"
	"github.com/alcostack/backend/internal/services"
	"github.com/alcostack/backend/internal/storage"
	"github.com/alcostack/backend/pkg/logger"
	"github.com/alcostack/backend/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var photoStore storage.PhotoStore
	var localStore *storage.LocalStore
	switch cfg.Uploads.Backend {
	case "minio":
		minioStore, err := storage.NewMinIOStore(cfg.MinIO)
		if err != nil {
			log.Fatalf("minio initialization failed: %v", err)
		}
		if err := minioStore.EnsureBucket(context.Background()); err != nil {
			log.Fatalf("failed ensuring minio bucket: %v", err)
		}
		photoStore = minioStore
	default:
		localStore, err = storage.NewLocalStore(cfg.Uploads.Dir)
		if err != nil {
			log.Fatalf("uploads directory initialization failed: %v", err)
		}
		photoStore = localStore
	}

	auditService := services.NewAuditService(db)

	accountHandler := handlers.NewAccountHandler(db, auditService, photoStore)
	partiesHandler := handlers.NewPartiesHandler(db, auditService, photoStore)
	alcoholsHandler := handlers.NewAlcoholsHandler(db)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 20 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})

	if localStore != nil {
		app.Static("/uploads", localStore.Dir())
	}

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

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
		"uploads": cfg.Uploads.Backend,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
