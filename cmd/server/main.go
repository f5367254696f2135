package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"biograph/internal/graph"
	"biograph/pkg/config"
	"biograph/pkg/logger"
)

func main() {
	// Initialize logger
	if err := logger.Init(os.Getenv("ENV")); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer logger.Sync()

	log := logger.Get()
	log.Info("Starting HTTP API server...")

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

	// Verify Neo4j connection
	ctx := context.Background()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		log.Fatal("Failed to verify Neo4j connectivity", zap.Error(err))
	}

	repo := graph.NewRepository(driver, cfg.Neo4jDatabase)

	// Setup Gin router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API routes
	api := router.Group("/api")
	{
		// Schema status: declared vs live constraints, plus node counts
		api.GET("/schema/status", func(c *gin.Context) {
			ctx := c.Request.Context()

			missing, err := repo.MissingConstraints(ctx)
			if err != nil {
				log.Error("Failed to introspect schema", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to introspect schema"})
				return
			}

			counts, err := repo.CountsByLabel(ctx)
			if err != nil {
				log.Error("Failed to count nodes", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count nodes"})
				return
			}

			missingNames := make([]string, 0, len(missing))
			for _, m := range missing {
				missingNames = append(missingNames, m.Name)
			}

			c.JSON(http.StatusOK, gin.H{
				"declared": len(graph.UniqueConstraints),
				"missing":  missingNames,
				"complete": len(missing) == 0,
				"counts":   counts,
			})
		})

		// Lookups by unique key, one route per label
		api.GET("/drugs/:chembl_id", lookupHandler(log, func(ctx context.Context, key string) (interface{}, error) {
			return repo.GetDrug(ctx, key)
		}))
		api.GET("/targets/:uniprot_id", lookupHandler(log, func(ctx context.Context, key string) (interface{}, error) {
			return repo.GetTarget(ctx, key)
		}))
		api.GET("/genes/:entrez_id", lookupHandler(log, func(ctx context.Context, key string) (interface{}, error) {
			return repo.GetGene(ctx, key)
		}))
		api.GET("/diseases/:doid", lookupHandler(log, func(ctx context.Context, key string) (interface{}, error) {
			return repo.GetDisease(ctx, key)
		}))
		api.GET("/side-effects/:umls_cui", lookupHandler(log, func(ctx context.Context, key string) (interface{}, error) {
			return repo.GetSideEffect(ctx, key)
		}))
		api.GET("/compounds/:drugbank_id", lookupHandler(log, func(ctx context.Context, key string) (interface{}, error) {
			return repo.GetCompound(ctx, key)
		}))
		api.GET("/stitch/:stitch_id", lookupHandler(log, func(ctx context.Context, key string) (interface{}, error) {
			return repo.GetStitch(ctx, key)
		}))
	}

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	log.Info("Server started", zap.String("port", cfg.Port))

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited")
}

// lookupHandler serves a single-node fetch. All lookup routes declare exactly
// one path parameter, so the first param is the key.
func lookupHandler(log *zap.Logger, fetch func(ctx context.Context, key string) (interface{}, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.Params[0].Value

		node, err := fetch(c.Request.Context(), key)
		if err != nil {
			var notFound graph.ErrNodeNotFound
			if errors.As(err, &notFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": notFound.Error()})
				return
			}
			log.Error("Lookup failed", zap.String("key", key), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Lookup failed"})
			return
		}

		c.JSON(http.StatusOK, node)
	}
}

// ginLogger is a custom logger middleware for Gin
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if raw != "" {
			path = path + "?" + raw
		}

		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
		)
	}
}
