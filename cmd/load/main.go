package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"biograph/internal/graph"
	"biograph/internal/ingest"
	"biograph/pkg/config"
	"biograph/pkg/logger"
)

func main() {
	dataDir := flag.String("data", "", "Directory with processed CSVs (default: DATA_DIR from env)")
	nodesOnly := flag.Bool("nodes-only", false, "Load node files only, skip edges")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting graph bulk load...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *dataDir == "" {
		*dataDir = cfg.DataDir
	}

	// Initialize Neo4j driver
	driver, err := neo4j.NewDriverWithContext(
		cfg.Neo4jURI,
		neo4j.BasicAuth(cfg.Neo4jUser, cfg.Neo4jPassword, ""),
	)
	if err != nil {
		log.Fatal("Failed to create Neo4j driver", zap.Error(err))
	}
	defer driver.Close(context.Background())

	// Verify connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver, cfg.Neo4jDatabase)

	// The loader MERGEs on unique keys, so the constraints must be in place
	// before the first write
	if err := repo.EnsureConstraints(ctx); err != nil {
		log.Fatal("Schema setup failed", zap.Error(err))
	}

	loader := ingest.NewLoader(repo, *dataDir, cfg.LoadBatchSize)

	if *nodesOnly {
		if err := loader.LoadNodes(ctx); err != nil {
			log.Fatal("Node load failed", zap.String("run_id", loader.RunID()), zap.Error(err))
		}
	} else {
		if err := loader.Run(ctx); err != nil {
			log.Fatal("Load failed", zap.String("run_id", loader.RunID()), zap.Error(err))
		}
	}

	counts, err := repo.CountsByLabel(ctx)
	if err != nil {
		log.Fatal("Failed to count nodes", zap.Error(err))
	}
	for label, count := range counts {
		log.Info("Label loaded", zap.String("label", label), zap.Int64("nodes", count))
	}

	log.Info("Load completed successfully!", zap.String("run_id", loader.RunID()))
}
