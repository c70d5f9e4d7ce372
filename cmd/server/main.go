package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storysynth/internal/collaborators"
	"storysynth/internal/config"
	"storysynth/internal/gpugate"
	"storysynth/internal/httpapi"
	"storysynth/internal/pipeline"
	"storysynth/internal/registry"
	"storysynth/internal/scheduler"
	"storysynth/internal/steps"
	"storysynth/internal/taskstore"
	"storysynth/internal/validate"
	"storysynth/pkg/logger"

	_ "storysynth/api-docs" // Import generated Swagger docs

	"github.com/gin-gonic/gin"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// @title Story Synthesis Orchestrator API
// @version 1.0
// @description Async task orchestrator for the four-stage audio story synthesis pipeline
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT token with Bearer prefix

func main() {
	var showVersion = flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("storysynth %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	log.Println("Story synthesis orchestrator starting up...")

	log.Println("Loading configuration...")
	cfg := config.Load()

	log.Println("Initializing logging system...")
	logger.Init(os.Getenv("LOG_LEVEL"))
	logger.Info("Starting storysynth", "version", version, "commit", commit)

	log.Println("Opening task journal...")
	store, err := taskstore.Open(cfg.JournalPath())
	if err != nil {
		log.Fatal("Failed to open task journal:", err)
	}

	log.Println("Loading task registry and recovering interrupted tasks...")
	reg, err := registry.New(store, cfg.TaskDir)
	if err != nil {
		log.Fatal("Failed to load task registry:", err)
	}
	log.Println("Task registry ready")

	log.Println("Compiling input schemas...")
	validator, err := validate.New()
	if err != nil {
		log.Fatal("Failed to compile input schemas:", err)
	}

	gate := gpugate.New(cfg.GPUPermits)

	pipelineCfg := pipeline.Config{
		Clone:    &steps.CloneExecutor{Cloner: collaborators.NewSubprocessCloner(cfg.ClonerBin, cfg.SubprocessTimeout)},
		Trim:     &steps.TrimExecutor{Trimmer: collaborators.NewNativeTrimmer()},
		Sequence: &steps.SequenceExecutor{Builder: collaborators.NewNativeSequencer()},
		Align:    &steps.AlignExecutor{Aligner: collaborators.NewNativeAligner()},

		CloneTimeout:    cfg.CloneTimeout,
		TrimTimeout:     cfg.TrimTimeout,
		SequenceTimeout: cfg.SequenceTimeout,
		AlignTimeout:    cfg.AlignTimeout,

		TaskDir: cfg.TaskDir,
	}
	pl := pipeline.New(reg, gate, pipelineCfg)

	log.Println("Starting scheduler...")
	sched := scheduler.New(cfg.WorkerCount, cfg.QueueSize, pl)
	sched.Start()
	defer sched.Stop()
	log.Println("Scheduler started")

	log.Println("Setting up API handlers...")
	handler := httpapi.NewHandler(reg, sched, validator)

	log.Println("Configuring routes...")
	if cfg.Host != "localhost" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpapi.NewRouter(handler, httpapi.Options{JWTSecret: cfg.JWTSecret})
	log.Println("Routes configured")

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	log.Printf("storysynth is now running! Server listening on http://%s:%s", cfg.Host, cfg.Port)
	log.Println("Visit /swagger/index.html for API documentation")
	log.Println("Press Ctrl+C to stop the server")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
