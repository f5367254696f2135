package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"biograph/internal/graph"
	"biograph/pkg/config"
	"biograph/pkg/logger"
)

func main() {
	verifyOnly := flag.Bool("verify", false, "Only check which constraints exist, do not create anything")
	flag.Parse()

	// Initialize logger
	if err := logger.Init("development"); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting Neo4j schema setup...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
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

	if !*verifyOnly {
		if err := repo.EnsureConstraints(ctx); err != nil {
			log.Fatal("Schema setup failed", zap.Error(err))
		}
	}

	missing, err := repo.MissingConstraints(ctx)
	if err != nil {
		log.Fatal("Failed to introspect schema", zap.Error(err))
	}
	if len(missing) > 0 {
		for _, c := range missing {
			log.Warn("Constraint missing",
				zap.String("name", c.Name),
				zap.String("label", c.Label),
				zap.String("property", c.Property),
			)
		}
		log.Fatal("Schema incomplete", zap.Int("missing", len(missing)))
	}

	log.Info("Schema setup completed successfully!",
		zap.Int("constraints", len(graph.UniqueConstraints)),
	)
}
