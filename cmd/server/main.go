package main

import (
	"fmt"
	"log"

	"rfqforge/internal/config"
	"rfqforge/internal/extract"
	"rfqforge/internal/handler"
	"rfqforge/internal/parser"
	"rfqforge/internal/parser/groq"
	"rfqforge/internal/port"
	"rfqforge/internal/repository/postgres"
	"rfqforge/internal/router"
	"rfqforge/internal/service"
	s3storage "rfqforge/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	draftRepo := postgres.NewRFQDraftRepo(db)

	// Object storage is optional; without a bucket, source documents are
	// simply not archived.
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	cascade := parser.NewCascade(groq.NewClient(&cfg.Parser), &cfg.Parser)
	extractor := extract.NewExtractor()

	rfqSvc := service.NewRFQService(cascade, extractor, draftRepo, storage, &cfg.S3)

	rfqH := handler.NewRFQHandler(rfqSvc)
	healthH := handler.NewHealthHandler(db)

	r := router.Setup(rfqH, healthH, cfg.CORS.AllowedOrigins)

	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := r.Run(cfg.Server.Port); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
