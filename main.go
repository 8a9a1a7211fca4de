package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Aravindkumar2195/mom-app/config"
	"github.com/Aravindkumar2195/mom-app/handler"
	"github.com/Aravindkumar2195/mom-app/middleware"
	"github.com/Aravindkumar2195/mom-app/pkg/logger"
	"github.com/Aravindkumar2195/mom-app/service"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger.Init(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	slog.Info("configuration loaded successfully")

	// Initialize stores and services
	service.InitStores(&cfg.Store)
	suppliers := service.GetSupplierStore()
	records := service.GetRecordStore()

	geminiSvc := service.NewGeminiService(&cfg.Gemini)

	// Evidence archiving is optional: the draft keeps the compressed copy
	// either way
	var evidence *service.EvidenceStore
	if cfg.Minio.Endpoint != "" {
		evidence, err = service.NewEvidenceStore(&cfg.Minio)
		if err != nil {
			slog.Error("failed to initialize evidence store", "error", err)
			os.Exit(1)
		}
		if err := evidence.EnsureBucket(context.Background()); err != nil {
			slog.Error("failed to ensure evidence bucket", "error", err)
			os.Exit(1)
		}
	} else {
		slog.Warn("minio not configured, evidence archiving disabled")
	}

	sessions := service.NewSessionStore()
	dispatcher := service.NewDispatcher(suppliers, service.SystemClipboard{})

	// Initialize handlers
	authHandler := handler.NewAuthHandler(cfg)
	directoryHandler := handler.NewDirectoryHandler(suppliers, records)
	visitHandler := handler.NewVisitHandler(sessions, suppliers, records, geminiSvc, geminiSvc, dispatcher, evidence, cfg.Evidence)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New() // Use New() instead of Default() to avoid default middleware

	// Add custom middleware
	router.Use(middleware.RequestID())                 // Request ID for tracing
	router.Use(middleware.Recovery())                  // Panic recovery
	router.Use(middleware.RequestLogger())             // Access logging
	router.Use(corsMiddleware())                       // CORS
	router.Use(middleware.RateLimit(100, time.Minute)) // Rate limiting: 100 requests per minute

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	// Public routes
	api := router.Group("/api")
	{
		api.POST("/auth/login", authHandler.Login)
	}

	// Protected routes
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(&cfg.Auth))
	{
		protected.GET("/auth/me", authHandler.GetCurrentUser)

		protected.GET("/suppliers", directoryHandler.ListSuppliers)
		protected.GET("/records", directoryHandler.ListRecords)
		protected.GET("/records/:id", directoryHandler.GetRecord)
		protected.GET("/records/:id/report.html", directoryHandler.RecordReportHTML)
		protected.GET("/records/:id/report.pdf", directoryHandler.RecordReportPDF)

		protected.POST("/visits", visitHandler.Open)
		protected.GET("/visits/:id", visitHandler.State)
		protected.POST("/visits/:id/next", visitHandler.Next)
		protected.POST("/visits/:id/back", visitHandler.Back)
		protected.PUT("/visits/:id/date", visitHandler.SetDate)
		protected.POST("/visits/:id/supplier/select", visitHandler.SelectSupplier)
		protected.POST("/visits/:id/supplier/new", visitHandler.StartNewSupplier)
		protected.POST("/visits/:id/supplier/create", visitHandler.CreateSupplier)
		protected.DELETE("/visits/:id/supplier", visitHandler.ClearSupplier)
		protected.POST("/visits/:id/participants", visitHandler.AddParticipant)
		protected.PATCH("/visits/:id/participants/:pid", visitHandler.PatchParticipant)
		protected.DELETE("/visits/:id/participants/:pid", visitHandler.RemoveParticipant)
		protected.POST("/visits/:id/observations", visitHandler.AddObservation)
		protected.PATCH("/visits/:id/observations/:oid", visitHandler.PatchObservation)
		protected.DELETE("/visits/:id/observations/:oid", visitHandler.RemoveObservation)
		protected.POST("/visits/:id/observations/:oid/photo", visitHandler.AttachPhoto)
		protected.POST("/visits/:id/observations/:oid/polish", visitHandler.PolishObservation)
		protected.PUT("/visits/:id/summary", visitHandler.SetSummary)
		protected.POST("/visits/:id/finalize", visitHandler.Finalize)
		protected.DELETE("/visits/:id", visitHandler.Cancel)
		protected.GET("/visits/:id/preview", visitHandler.Preview)
		protected.GET("/visits/:id/report.html", visitHandler.ReportHTML)
		protected.GET("/visits/:id/report.pdf", visitHandler.ReportPDF)
		protected.POST("/visits/:id/clipboard", visitHandler.CopyToClipboard)
		protected.POST("/visits/:id/send", visitHandler.Send)
	}

	// Create server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		slog.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server exited gracefully")
}

// corsMiddleware handles CORS headers
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
