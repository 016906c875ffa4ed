package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines application configuration.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Transport   TransportConfig   `yaml:"transport"`
	Log         LogConfig         `yaml:"log"`
	Backend     BackendConfig     `yaml:"backend"`
	DB          DBConfig          `yaml:"db"`
	Session     SessionConfig     `yaml:"session"`
	FoodDB      FoodDBConfig      `yaml:"food_db"`
	Recognition RecognitionConfig `yaml:"recognition"`
	Storage     StorageConfig     `yaml:"storage"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// TransportConfig selects how the shell is served: "http" or "stdio".
type TransportConfig struct {
	Mode string `yaml:"mode"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// BackendConfig selects the record store: "supabase" or "sqlite".
type BackendConfig struct {
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
	// JWTSecret enables HS256 verification of access tokens.
	JWTSecret string        `yaml:"jwt_secret"`
	Timeout   time.Duration `yaml:"timeout"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

// SessionConfig signs in a single user for stdio mode.
type SessionConfig struct {
	Email       string `yaml:"email"`
	Password    string `yaml:"password"`
	AccessToken string `yaml:"access_token"`
	UserID      string `yaml:"user_id"`
}

// FoodDBConfig configures external food search: "openfoodfacts" or "local".
type FoodDBConfig struct {
	Provider string        `yaml:"provider"`
	BaseURL  string        `yaml:"base_url"`
	PageSize int           `yaml:"page_size"`
	Timeout  time.Duration `yaml:"timeout"`
}

// RecognitionConfig selects the image recognizer: "supabase", "rekognition" or "none".
type RecognitionConfig struct {
	Provider      string  `yaml:"provider"`
	MinConfidence float64 `yaml:"min_confidence"`
	MaxCandidates int     `yaml:"max_candidates"`
	Region        string  `yaml:"region"`
}

type StorageConfig struct {
	Bucket        string `yaml:"bucket"`
	Region        string `yaml:"region"`
	Endpoint      string `yaml:"endpoint"`
	AccessKey     string `yaml:"access_key"`
	SecretKey     string `yaml:"secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Transport: TransportConfig{Mode: "http"},
		Log: LogConfig{
			Level: "info",
		},
		Backend: BackendConfig{
			Kind:    "sqlite",
			Timeout: 15 * time.Second,
		},
		DB: DBConfig{
			Path: "nutrilog.db",
		},
		FoodDB: FoodDBConfig{
			Provider: "openfoodfacts",
			BaseURL:  "https://world.openfoodfacts.org",
			PageSize: 5,
			Timeout:  10 * time.Second,
		},
		Recognition: RecognitionConfig{
			Provider:      "supabase",
			MinConfidence: 30,
			MaxCandidates: 5,
		},
	}
}

// Load reads configuration from a .env file, an optional YAML file and
// environment variables, in that order of precedence from lowest.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path := os.Getenv("NUTRILOG_CONFIG"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("NUTRILOG_SERVER_HOST", &cfg.Server.Host)
	if err := setInt("NUTRILOG_SERVER_PORT", &cfg.Server.Port); err != nil {
		return err
	}
	setString("NUTRILOG_TRANSPORT", &cfg.Transport.Mode)
	setString("NUTRILOG_LOG_LEVEL", &cfg.Log.Level)

	setString("NUTRILOG_BACKEND", &cfg.Backend.Kind)
	setString("NUTRILOG_BACKEND_URL", &cfg.Backend.URL)
	setString("NUTRILOG_BACKEND_ANON_KEY", &cfg.Backend.AnonKey)
	setString("NUTRILOG_JWT_SECRET", &cfg.Backend.JWTSecret)
	if err := setDuration("NUTRILOG_BACKEND_TIMEOUT", &cfg.Backend.Timeout); err != nil {
		return err
	}
	setString("NUTRILOG_DB_PATH", &cfg.DB.Path)

	setString("NUTRILOG_SESSION_EMAIL", &cfg.Session.Email)
	setString("NUTRILOG_SESSION_PASSWORD", &cfg.Session.Password)
	setString("NUTRILOG_SESSION_ACCESS_TOKEN", &cfg.Session.AccessToken)
	setString("NUTRILOG_SESSION_USER_ID", &cfg.Session.UserID)

	setString("NUTRILOG_FOOD_DB_PROVIDER", &cfg.FoodDB.Provider)
	setString("NUTRILOG_FOOD_DB_URL", &cfg.FoodDB.BaseURL)
	if err := setInt("NUTRILOG_FOOD_DB_PAGE_SIZE", &cfg.FoodDB.PageSize); err != nil {
		return err
	}
	if err := setDuration("NUTRILOG_FOOD_DB_TIMEOUT", &cfg.FoodDB.Timeout); err != nil {
		return err
	}

	setString("NUTRILOG_RECOGNITION_PROVIDER", &cfg.Recognition.Provider)
	if v := os.Getenv("NUTRILOG_RECOGNITION_MIN_CONFIDENCE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid NUTRILOG_RECOGNITION_MIN_CONFIDENCE: %w", err)
		}
		cfg.Recognition.MinConfidence = f
	}
	if err := setInt("NUTRILOG_RECOGNITION_MAX_CANDIDATES", &cfg.Recognition.MaxCandidates); err != nil {
		return err
	}
	setString("NUTRILOG_RECOGNITION_REGION", &cfg.Recognition.Region)

	setString("NUTRILOG_STORAGE_BUCKET", &cfg.Storage.Bucket)
	setString("NUTRILOG_STORAGE_REGION", &cfg.Storage.Region)
	setString("NUTRILOG_STORAGE_ENDPOINT", &cfg.Storage.Endpoint)
	setString("NUTRILOG_STORAGE_ACCESS_KEY", &cfg.Storage.AccessKey)
	setString("NUTRILOG_STORAGE_SECRET_KEY", &cfg.Storage.SecretKey)
	setString("NUTRILOG_STORAGE_PUBLIC_URL", &cfg.Storage.PublicBaseURL)
	return nil
}

func setString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(key string, dst *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = n
	return nil
}

func setDuration(key string, dst *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*dst = d
	return nil
}

// Validate checks enumerated settings and required backend fields.
func (c Config) Validate() error {
	oneOf := func(name, v string, allowed ...string) error {
		for _, a := range allowed {
			if strings.EqualFold(v, a) {
				return nil
			}
		}
		return fmt.Errorf("invalid %s %q: want one of %s", name, v, strings.Join(allowed, ", "))
	}
	if err := oneOf("transport mode", c.Transport.Mode, "http", "stdio"); err != nil {
		return err
	}
	if err := oneOf("backend kind", c.Backend.Kind, "supabase", "sqlite"); err != nil {
		return err
	}
	if err := oneOf("food_db provider", c.FoodDB.Provider, "openfoodfacts", "local", "none"); err != nil {
		return err
	}
	if err := oneOf("recognition provider", c.Recognition.Provider, "supabase", "rekognition", "none"); err != nil {
		return err
	}
	if strings.EqualFold(c.Backend.Kind, "supabase") && (c.Backend.URL == "" || c.Backend.AnonKey == "") {
		return errors.New("supabase backend requires backend.url and backend.anon_key")
	}
	if c.Recognition.MinConfidence < 0 || c.Recognition.MinConfidence > 100 {
		return fmt.Errorf("recognition.min_confidence must be within 0-100, got %v", c.Recognition.MinConfidence)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}
