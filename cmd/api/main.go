package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"recruitai/assistant/internal/config"
	"recruitai/assistant/internal/handlers"
	"recruitai/assistant/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractor := services.NewTextExtractorService()
	analysisClient := services.NewAnalysisClient(cfg.Analysis.WebhookURL, cfg.Analysis.Timeout)
	log.Println("✅ Services initialized successfully")

	// Initialize workflow
	workflow := services.NewWorkflow(extractor, analysisClient, storageService, cfg.Mail.SendDelay)
	log.Println("✅ Workflow initialized successfully")

	// Initialize Handlers
	uploadHandler := handlers.NewUploadHandler(
		workflow,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	workflowHandler := handlers.NewWorkflowHandler(workflow)
	dashboardHandler := handlers.NewDashboardHandler()
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Recruit-AI Assistant API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Get("/state", workflowHandler.HandleState)
	api.Get("/dashboard", dashboardHandler.HandleDashboard)
	api.Post("/documents", uploadHandler.HandleUpload)
	api.Post("/navigate", workflowHandler.HandleNavigate)
	api.Post("/analyze", workflowHandler.HandleAnalyze)
	api.Get("/candidate", workflowHandler.HandleCandidate)
	api.Post("/approval/open", workflowHandler.HandleApprovalOpen)
	api.Put("/approval/draft", workflowHandler.HandleDraftUpdate)
	api.Post("/approval/send", workflowHandler.HandleSend)
	api.Post("/approval/close", workflowHandler.HandleApprovalClose)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Recruit-AI Assistant API",
			"version": "1.0.0",
			"endpoints": []string{
				"GET  /api/v1/state",
				"GET  /api/v1/dashboard",
				"POST /api/v1/documents",
				"POST /api/v1/navigate",
				"POST /api/v1/analyze",
				"GET  /api/v1/candidate",
				"POST /api/v1/approval/open",
				"PUT  /api/v1/approval/draft",
				"POST /api/v1/approval/send",
				"POST /api/v1/approval/close",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)
	log.Printf("📖 API Documentation: http://localhost%s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
