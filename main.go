package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/config"
	_ "github.com/leechunsiang0724/jd-clarifier-skill-extractor/docs"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/handlers"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/gotrue"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/internal/refiner"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/middleware"
	"github.com/leechunsiang0724/jd-clarifier-skill-extractor/store"
)

// @title JD Clarifier API
// @version 1.0
// @description Job-description authoring backend: AI refinement, skill
// @description extraction, and a manager approval workflow over Supabase.
// @BasePath /api/v1
func main() {
	// .env first so LOG_LEVEL set there reaches the logger.
	envErr := config.LoadEnv()
	config.InitLogger()
	if envErr != nil {
		config.Log.Warnf("No .env file loaded: %v", envErr)
	}

	if err := config.InitSupabase(); err != nil {
		log.Fatalf("Failed to initialize Supabase: %v", err)
	}

	jobStore := store.NewSupabaseStore(config.SupabaseClient, config.Log)
	refinerClient := refiner.NewClient(config.GetOpenAIKey(), config.GetOpenAIModel(), "", config.Log)
	authClient := gotrue.NewClient(config.GetSupabaseURL(), config.GetSupabaseAnonKey())

	h := handlers.NewApplicationHandler(jobStore, refinerClient, authClient, config.Log)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Allow all origins for development
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger())

	// Health check route
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status":  "ok",
			"message": "JD Clarifier API is healthy",
		})
	})

	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	apiV1 := app.Group("/api/v1")

	// Public routes
	apiV1.Post("/auth/login", h.Login)
	apiV1.Get("/shared/:token", h.GetSharedJob)
	apiV1.Get("/shared/:token/comments", h.ListSharedComments)
	apiV1.Post("/shared/:token/comments", h.AddSharedComment)

	// Authenticated routes
	authed := apiV1.Group("", middleware.RequireUser(authClient))
	authed.Get("/auth/me", h.Me)

	authed.Post("/jobs", h.CreateJob)
	authed.Get("/jobs", h.ListMyJobs)
	authed.Get("/jobs/:id", h.GetJob)
	authed.Patch("/jobs/:id", h.UpdateJob)
	authed.Delete("/jobs/:id", h.DeleteJob)
	authed.Post("/jobs/:id/refine", h.RefineJob)

	authed.Post("/jobs/:id/submit", h.SubmitJob)
	authed.Post("/jobs/:id/approve", h.ApproveJob)
	authed.Post("/jobs/:id/reject", h.RejectJob)
	authed.Get("/submissions", h.ListSubmissions)

	authed.Get("/jobs/:id/comments", h.ListJobComments)
	authed.Post("/jobs/:id/comments", h.AddJobComment)

	addr := ":" + config.GetPort()
	config.Log.Infof("Starting JD Clarifier API on %s", addr)
	log.Fatal(app.Listen(addr))
}
