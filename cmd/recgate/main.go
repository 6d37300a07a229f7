package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"recgate/internal/api"
	"recgate/internal/cache"
	cachememory "recgate/internal/cache/memory"
	cacheredis "recgate/internal/cache/redis"
	"recgate/internal/config"
	"recgate/internal/graph"
	graphmemory "recgate/internal/graph/memory"
	graphneo4j "recgate/internal/graph/neo4j"
	"recgate/internal/service"
	"recgate/internal/stats/sqlite"
	"recgate/internal/vectorstore"
	vsmemory "recgate/internal/vectorstore/memory"
	"recgate/internal/vectorstore/milvus"
	"recgate/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath string
	flag.StringVar(&cfgPath, "config", "config.yaml", "Path to YAML config file")
	flag.Parse()

	log := newLogger()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	ctx := context.Background()

	// Assemble store clients once at startup; every component downstream
	// receives them by reference.
	var vectors vectorstore.Store
	switch cfg.VectorStore.Type {
	case "memory":
		vectors = vsmemory.New(cfg.VectorDim)
	case "qdrant":
		if cfg.VectorStore.Qdrant == nil {
			log.Fatal().Msg("qdrant config missing")
		}
		vectors = qdrant.New(qdrant.Config{
			URL:        cfg.VectorStore.Qdrant.URL,
			APIKey:     cfg.VectorStore.Qdrant.APIKey,
			Collection: cfg.VectorStore.Qdrant.Collection,
			Timeout:    time.Duration(cfg.VectorStore.Qdrant.TimeoutSecs) * time.Second,
		})
	case "milvus", "":
		if cfg.VectorStore.Milvus == nil {
			log.Fatal().Msg("milvus config missing")
		}
		vectors, err = milvus.New(ctx, milvus.Config{
			Host:       cfg.VectorStore.Milvus.Host,
			Port:       cfg.VectorStore.Milvus.Port,
			Collection: cfg.VectorStore.Milvus.Collection,
			Metric:     cfg.VectorStore.Milvus.Metric,
			SearchEF:   cfg.VectorStore.Milvus.SearchEF,
			Timeout:    time.Duration(cfg.VectorStore.Milvus.TimeoutSecs) * time.Second,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to milvus")
		}
	default:
		log.Fatal().Str("type", cfg.VectorStore.Type).Msg("unknown vector store")
	}
	defer vectors.Close()

	var graphStore graph.Store
	switch cfg.Graph.Type {
	case "memory":
		graphStore = graphmemory.New(nil)
	case "neo4j", "":
		if cfg.Graph.Neo4j == nil {
			log.Fatal().Msg("neo4j config missing")
		}
		graphStore, err = graphneo4j.New(graphneo4j.Config{
			URI:      cfg.Graph.Neo4j.URI,
			User:     cfg.Graph.Neo4j.User,
			Password: cfg.Graph.Neo4j.Password,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to neo4j")
		}
	default:
		log.Fatal().Str("type", cfg.Graph.Type).Msg("unknown graph store")
	}
	defer graphStore.Close(ctx)

	statsStore, err := sqlite.Open(cfg.Stats.SQLitePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open stats store")
	}
	defer statsStore.Close()

	var cacheStore cache.Cache
	switch cfg.Cache.Type {
	case "memory":
		cacheStore = cachememory.New()
	case "redis", "":
		if cfg.Cache.Redis == nil {
			log.Fatal().Msg("redis config missing")
		}
		cacheStore = cacheredis.New(cfg.Cache.Redis.Addr, cfg.Cache.Redis.DB)
	default:
		log.Fatal().Str("type", cfg.Cache.Type).Msg("unknown cache store")
	}
	defer cacheStore.Close()

	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second
	svc := service.New(vectors, graphStore, statsStore, cacheStore, ttl, log)
	handler := api.NewHandler(svc, log)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           api.NewRouter(handler, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-shutdownCtx.Done()
	log.Info().Msg("shutting down")
	timeoutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(timeoutCtx); err != nil {
		log.Error().Err(err).Msg("shutdown incomplete")
	}
}

func newLogger() zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	var w io.Writer = os.Stdout
	if os.Getenv("LOG_FORMAT") == "console" {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}
