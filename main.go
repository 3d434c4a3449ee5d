// @title           Construtherm Structure API
// @version         1.0
// @description     Building structure construction pipeline - materializes building structures on the thermal calculation backend.

// @contact.name   API Support

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @schemes http https
package main

import (
	_ "backend/docs"
	"backend/handlers"
	"backend/services"
	"backend/storage"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

var cronRunning int32

func CORSConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{
		"http://localhost:3000",
		"http://localhost:8080",
		"http://localhost:9000",
	}
	if origin := os.Getenv("FRONTEND_ORIGIN"); origin != "" {
		corsConfig.AllowOrigins = append(corsConfig.AllowOrigins, origin)
	}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Content-Type", "Content-Length", "Accept-Encoding",
		"Accept", "Origin", "X-Requested-With", "Authorization", "User-Agent",
		"Cache-Control", "Referer",
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "HEAD", "PATCH"}
	corsConfig.ExposeHeaders = []string{"Content-Length", "Authorization", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	return corsConfig
}

func main() {
	db := storage.InitDB()
	defer db.Close()
	gormDB := storage.InitGormDB()

	if err := storage.EnsureStructureLogTable(db); err != nil {
		log.Fatalf("Failed to prepare structure log: %v", err)
	}

	calcClient, err := services.NewHTTPCalcClient()
	if err != nil {
		log.Fatalf("Failed to configure calc backend client: %v", err)
	}

	projectService := services.NewProjectService(calcClient, gormDB, db)

	r := gin.Default()
	r.Use(cors.New(CORSConfig()))

	// Authentication
	r.POST("/api/session", handlers.CreateSession())
	r.POST("/api/validate-session", handlers.ValidateSession())

	// Structure pipeline
	r.POST("/api/projects/:project_id/structure", handlers.StartStructureBuild(projectService))
	r.POST("/api/projects/:project_id/structure/validate", handlers.ValidateStructure(projectService))
	r.GET("/api/projects/:project_id/structure/status", handlers.GetStructureStatus(projectService))
	r.POST("/api/projects/:project_id/structure/import", handlers.ImportStructure())
	r.GET("/api/projects/:project_id/build_runs", handlers.ListBuildRuns(gormDB))

	// Build run artifacts
	r.GET("/api/build_runs/:run_code/report", handlers.GenerateBuildRunPDF(gormDB))
	r.GET("/api/build_runs/:run_code/qr", handlers.GenerateBuildRunQR(gormDB))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	// Daily maintenance: drop old build runs, log entries and finished
	// registry entries.
	c := cron.New(
		cron.WithLogger(cron.VerbosePrintfLogger(log.New(os.Stdout, "cron: ", log.LstdFlags))),
	)
	_, err = c.AddFunc("30 3 * * *", func() {
		if !atomic.CompareAndSwapInt32(&cronRunning, 0, 1) {
			log.Println("Previous cron still running. Skipping this run.")
			return
		}
		defer atomic.StoreInt32(&cronRunning, 0)

		log.Println("Starting daily maintenance cron job")

		retention := 90 * 24 * time.Hour
		threshold := time.Now().Add(-retention)

		if deleted, err := storage.DeleteBuildRunsBefore(gormDB, threshold); err != nil {
			log.Printf("Failed to clean up build runs: %v", err)
		} else if deleted > 0 {
			log.Printf("Deleted %d old build runs", deleted)
		}

		if err := storage.CleanupStructureLog(db, threshold); err != nil {
			log.Printf("Failed to clean up structure log: %v", err)
		}

		if pruned := projectService.Registry().Prune(time.Now().Add(-24 * time.Hour)); pruned > 0 {
			log.Printf("Pruned %d finished build trackers", pruned)
		}
	})
	if err != nil {
		log.Fatalf("Failed to schedule maintenance cron: %v", err)
	}
	c.Start()
	defer c.Stop()

	// Get port from environment variable or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "9000"
	}

	portInt, err := strconv.Atoi(port)
	if err != nil {
		log.Fatalf("Invalid PORT environment variable: %s. Must be a number.", port)
	}
	if portInt < 0 || portInt > 65535 {
		log.Fatalf("Invalid PORT: %d. Must be between 0 and 65535.", portInt)
	}

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exiting")
}
