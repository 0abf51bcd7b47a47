package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/anthanhphan/gosdk/conflux"
	"github.com/anthanhphan/gosdk/logger"
)

// Config holds the full server configuration.
type Config struct {
	Server ServerConfig  `json:"server" yaml:"server"`
	App    AppConfig     `json:"app" yaml:"app"`
	Store  StoreConfig   `json:"store" yaml:"store"`
	Redis  RedisConfig   `json:"redis" yaml:"redis"`
	Auth   AuthConfig    `json:"auth" yaml:"auth"`
	Push   PushConfig    `json:"push" yaml:"push"`
	Logger logger.Config `json:"logger" yaml:"logger"`
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

type AppConfig struct {
	NodeID           int64 `json:"node_id" yaml:"node_id"`
	ChunkSize        int64 `json:"chunk_size" yaml:"chunk_size"`
	MaxSongSize      int64 `json:"max_song_size" yaml:"max_song_size"`
	MaxCoverSize     int64 `json:"max_cover_size" yaml:"max_cover_size"`
	MaxAvatarSize    int64 `json:"max_avatar_size" yaml:"max_avatar_size"`
	PendingTTLMin    int   `json:"pending_ttl_min" yaml:"pending_ttl_min"`
	SweepIntervalMin int   `json:"sweep_interval_min" yaml:"sweep_interval_min"`
	DispatchWorkers  int   `json:"dispatch_workers" yaml:"dispatch_workers"`
}

type StoreConfig struct {
	DataDir             string `json:"data_dir" yaml:"data_dir"`
	FSync               bool   `json:"fsync" yaml:"fsync"`
	CompactionThreshold int    `json:"compaction_threshold" yaml:"compaction_threshold"`
}

type RedisConfig struct {
	Addr     string `json:"addr" yaml:"addr"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`
}

type AuthConfig struct {
	JWTSecret     string `json:"jwt_secret" yaml:"jwt_secret"`
	TokenTTLHours int    `json:"token_ttl_hours" yaml:"token_ttl_hours"`
}

type PushConfig struct {
	Enabled   bool   `json:"enabled" yaml:"enabled"`
	Endpoint  string `json:"endpoint" yaml:"endpoint"`
	ServerKey string `json:"server_key" yaml:"server_key"`
	TimeoutMS int    `json:"timeout_ms" yaml:"timeout_ms"`
}

// DefaultConfig returns configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: ":8080",
		},
		App: AppConfig{
			NodeID:           1,
			ChunkSize:        256 * 1024,       // 256KB, GridFS-style
			MaxSongSize:      50 * 1024 * 1024, // 50MB
			MaxCoverSize:     10 * 1024 * 1024, // 10MB
			MaxAvatarSize:    5 * 1024 * 1024,  // 5MB
			PendingTTLMin:    30,
			SweepIntervalMin: 15,
			DispatchWorkers:  4,
		},
		Store: StoreConfig{
			DataDir: "./data",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Auth: AuthConfig{
			JWTSecret:     "dev-secret-change-me",
			TokenTTLHours: 100,
		},
		Push: PushConfig{
			Endpoint:  "https://fcm.googleapis.com/fcm/send",
			TimeoutMS: 5000,
		},
		Logger: logger.Config{
			LogLevel:    logger.LevelInfo,
			LogEncoding: logger.EncodingJSON,
		},
	}
}

// Load loads configuration from file, falling back to defaults when no path
// was given and the default file does not exist.
func Load(path string) (*Config, error) {
	configPath := path
	if configPath == "" {
		env := os.Getenv("ENV")
		if env == "" {
			env = "local"
		}
		configPath = filepath.Join("internal", "config", env+".yaml")
	}

	cfg := DefaultConfig()

	parsedCfg, err := conflux.ParseConfig(configPath, cfg)
	if err != nil {
		log.Printf("Config file not found or failed to parse, using defaults if file not specified. Path: %s, Error: %v", configPath, err)
		if path != "" {
			return nil, err
		}
		return cfg, nil
	}

	return parsedCfg, nil
}

// MustLoad loads configuration or exits on error.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}
