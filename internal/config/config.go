// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"` // bearer key for the management API
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// StatusChannel is the pub/sub channel status snapshots are published to.
	StatusChannel string `yaml:"status_channel"`
}

type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
	Region    string `yaml:"region"`
	TempDir   string `yaml:"temp_dir"` // where downloads land; empty means os.TempDir
}

type STTConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"` // OpenAI-compatible endpoint
	Model   string `yaml:"model"`
}

type AudioConfig struct {
	FFmpegPath  string `yaml:"ffmpeg_path"`
	FFprobePath string `yaml:"ffprobe_path"`
}

type WorkerConfig struct {
	Concurrency int           `yaml:"concurrency"`
	JobTimeout  time.Duration `yaml:"job_timeout"` // deadline for one pipeline run
	LockTTL     time.Duration `yaml:"lock_ttl"`    // per-lecture lock expiry
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Storage  StorageConfig  `yaml:"storage"`
	STT      STTConfig      `yaml:"stt"`
	Audio    AudioConfig    `yaml:"audio"`
	Worker   WorkerConfig   `yaml:"worker"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Redis.StatusChannel == "" {
		cfg.Redis.StatusChannel = "lectures:status"
	}
	if cfg.STT.BaseURL == "" {
		cfg.STT.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.STT.Model == "" {
		cfg.STT.Model = "whisper-1"
	}
	if cfg.Audio.FFmpegPath == "" {
		cfg.Audio.FFmpegPath = "ffmpeg"
	}
	if cfg.Audio.FFprobePath == "" {
		cfg.Audio.FFprobePath = "ffprobe"
	}
	if cfg.Worker.Concurrency <= 0 {
		cfg.Worker.Concurrency = 4
	}
	if cfg.Worker.JobTimeout <= 0 {
		cfg.Worker.JobTimeout = 15 * time.Minute
	}
	if cfg.Worker.LockTTL <= 0 {
		cfg.Worker.LockTTL = 20 * time.Minute
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.Addr == "" {
		return nil, errors.New("redis.addr is required")
	}
	if cfg.Storage.Endpoint == "" || cfg.Storage.Bucket == "" {
		return nil, errors.New("storage.endpoint and storage.bucket are required")
	}
	if !dev && cfg.STT.APIKey == "" {
		return nil, errors.New("stt.api_key is required outside dev mode")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}
