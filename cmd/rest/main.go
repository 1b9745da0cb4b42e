package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"notecraft-be/internal/bootstrap"
	"notecraft-be/internal/config"
	"notecraft-be/internal/model"
	"notecraft-be/internal/server"
	"notecraft-be/internal/tracer"
	"notecraft-be/pkg/database"

	"gorm.io/gorm"
)

func main() {
	// 1. Load Configuration (fills the environment from .env)
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1b. Initialize Tracer (no-op unless OTEL_ENABLED=true)
	shutdownTracer := tracer.InitTracer(ctx, cfg.Tracing, cfg.App.Version)
	defer shutdownTracer(context.Background())

	// 2. Initialize Database (only the pgvector store needs one)
	var gormDB *gorm.DB
	if cfg.Database.VectorStore == "pgvector" {
		var err error
		gormDB, err = database.Open(cfg.Database.DatabaseOptions())
		if err != nil {
			log.Panicf("Unable to connect to GORM DB: %v", err)
		}
		if err := database.Migrate(gormDB, &model.IndexedPassage{}); err != nil {
			log.Panicf("Unable to migrate database: %v", err)
		}
	}

	// 3. Bootstrap Dependencies (Container)
	container, err := bootstrap.NewContainer(ctx, gormDB, cfg)
	if err != nil {
		log.Panicf("Unable to build container: %v", err)
	}
	defer container.Close()

	// 4. Start Background Services
	go container.WebSocketHub.Run(ctx)

	log.Println("Background: Starting Index Consumer...")
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Panicf("Index consumer failed to start: %v", err)
	}
	log.Println("Background: Starting Job Workers...")
	if err := container.JobWorkerService.Consume(ctx); err != nil {
		log.Panicf("Job workers failed to start: %v", err)
	}
	if err := container.JobNotifier.Start(ctx); err != nil {
		log.Printf("[WARN] Job notifier subscription failed: %v", err)
	}

	// 5. Initialize Server
	srv := server.New(cfg, container)

	go func() {
		<-ctx.Done()
		log.Println("Shutting down...")
		if err := srv.Shutdown(); err != nil {
			log.Printf("Server shutdown error: %v", err)
		}
	}()

	// 6. Run Server
	if err := srv.Run(); err != nil {
		log.Printf("Server stopped: %v", err)
	}

	stop()
	container.ConsumerService.Wait()
	container.JobWorkerService.Wait()
}
