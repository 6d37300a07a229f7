package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// MilvusConfig contains connection details for the Milvus vector store.
type MilvusConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	Collection  string `yaml:"collection"`
	Metric      string `yaml:"metric"` // IP or COSINE
	SearchEF    int    `yaml:"search_ef"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// VectorStoreConfig selects and configures the vector store backend.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Milvus *MilvusConfig `yaml:"milvus,omitempty"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// Neo4jConfig contains connection details for the relationship store.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// GraphConfig selects and configures the relationship store backend.
type GraphConfig struct {
	Type  string       `yaml:"type"`
	Neo4j *Neo4jConfig `yaml:"neo4j,omitempty"`
}

// StatsConfig configures the engagement statistics store.
type StatsConfig struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// RedisConfig contains connection details for the shared response cache.
type RedisConfig struct {
	Addr string `yaml:"addr"`
	DB   int    `yaml:"db"`
}

// CacheConfig selects and configures the response cache backend.
type CacheConfig struct {
	Type    string       `yaml:"type"`
	TTLSecs int          `yaml:"ttl_secs"`
	Redis   *RedisConfig `yaml:"redis,omitempty"`
}

// AppConfig is the root configuration structure for the gateway.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	VectorDim   int               `yaml:"vector_dim"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Graph       GraphConfig       `yaml:"graph"`
	Stats       StatsConfig       `yaml:"stats"`
	Cache       CacheConfig       `yaml:"cache"`
}

// Load reads a config from the given path. A missing file yields defaults so
// the gateway can run against a local docker-compose stack with no config
// file at all. Environment variables override file values either way.
func Load(path string) (*AppConfig, error) {
	cfg := defaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(cfg)
	applyEnvOverrides(cfg)
	if cfg.VectorDim <= 0 {
		return nil, fmt.Errorf("vector_dim must be positive, got %d", cfg.VectorDim)
	}
	return cfg, nil
}

func defaultConfig() *AppConfig {
	return &AppConfig{
		Server:    ServerConfig{Addr: ":8080"},
		VectorDim: 384,
		VectorStore: VectorStoreConfig{
			Type: "milvus",
			Milvus: &MilvusConfig{
				Host:       "localhost",
				Port:       19530,
				Collection: "message_embeddings",
				Metric:     "IP",
			},
		},
		Graph: GraphConfig{
			Type:  "neo4j",
			Neo4j: &Neo4jConfig{URI: "bolt://localhost:7687", User: "neo4j", Password: "password"},
		},
		Stats: StatsConfig{SQLitePath: "analytics.db"},
		Cache: CacheConfig{
			Type:    "redis",
			TTLSecs: 60,
			Redis:   &RedisConfig{Addr: "localhost:6379"},
		},
	}
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Cache.TTLSecs == 0 {
		cfg.Cache.TTLSecs = 60
	}
	if m := cfg.VectorStore.Milvus; m != nil {
		if m.Port == 0 {
			m.Port = 19530
		}
		if m.Collection == "" {
			m.Collection = "message_embeddings"
		}
		if m.Metric == "" {
			m.Metric = "IP"
		}
		if m.SearchEF == 0 {
			m.SearchEF = 128
		}
		if m.TimeoutSecs == 0 {
			m.TimeoutSecs = 10
		}
	}
	if q := cfg.VectorStore.Qdrant; q != nil {
		if q.Collection == "" {
			q.Collection = "message_embeddings"
		}
		if q.TimeoutSecs == 0 {
			q.TimeoutSecs = 15
		}
	}
}

// applyEnvOverrides keeps the deployment's environment variable names working
// on top of whatever the file says.
func applyEnvOverrides(cfg *AppConfig) {
	cfg.Server.Addr = getEnv("HTTP_ADDR", cfg.Server.Addr)
	cfg.VectorDim = getEnvInt("VECTOR_DIM", cfg.VectorDim)
	if m := cfg.VectorStore.Milvus; m != nil {
		m.Host = getEnv("MILVUS_HOST", m.Host)
		m.Port = getEnvInt("MILVUS_PORT", m.Port)
		m.Collection = getEnv("MILVUS_COLLECTION", m.Collection)
		m.Metric = getEnv("MILVUS_INDEX_METRIC", m.Metric)
	}
	if n := cfg.Graph.Neo4j; n != nil {
		n.URI = getEnv("NEO4J_URI", n.URI)
		n.User = getEnv("NEO4J_USER", n.User)
		n.Password = getEnv("NEO4J_PASSWORD", n.Password)
	}
	cfg.Stats.SQLitePath = getEnv("SQLITE_PATH", cfg.Stats.SQLitePath)
	if r := cfg.Cache.Redis; r != nil {
		r.Addr = getEnv("REDIS_ADDR", r.Addr)
		r.DB = getEnvInt("REDIS_DB", r.DB)
	}
	cfg.Cache.TTLSecs = getEnvInt("REDIS_TTL_SECONDS", cfg.Cache.TTLSecs)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
