package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-yaml/yaml"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	"github.com/totegamma/saucebox/internal/domain"
)

type Config struct {
	Server Server `yaml:"server"`
	Auth   Auth   `yaml:"auth"`
}

type Server struct {
	Listen        string `yaml:"listen"`
	PostgresDsn   string `yaml:"postgresDsn"`
	RedisAddr     string `yaml:"redisAddr"`
	RedisPassword string `yaml:"redisPassword"`
	RedisDB       int    `yaml:"redisDB"`
	MemcachedAddr string `yaml:"memcachedAddr"`
	EnableTrace   bool   `yaml:"enableTrace"`
	TraceEndpoint string `yaml:"traceEndpoint"`
	ImageDir      string `yaml:"imageDir"`
	BodyLimit     string `yaml:"bodyLimit"`
	Log           Log    `yaml:"log"`
}

type Log struct {
	Level      string `yaml:"level"` // debug, info, warn, error
	JSON       bool   `yaml:"json"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"maxSize"`
	MaxBackups int    `yaml:"maxBackups"`
	MaxAge     int    `yaml:"maxAge"`
}

type Auth struct {
	TokenSecret string        `yaml:"tokenSecret"`
	TokenTTL    time.Duration `yaml:"tokenTTL"`
}

func Default() Config {
	return Config{
		Server: Server{
			Listen:    ":3000",
			ImageDir:  "images",
			BodyLimit: "10M",
			Log: Log{
				Level:      "info",
				MaxSize:    128,
				MaxBackups: 5,
				MaxAge:     16,
			},
		},
		Auth: Auth{
			TokenTTL: 24 * time.Hour,
		},
	}
}

// Load reads the yaml file at path on top of the defaults, then applies
// .env files and SAUCEBOX_* environment overrides. An empty path skips the
// file.
func Load(path string) (Config, error) {
	loadDotEnv(path)

	config := Default()

	if path != "" {
		file, err := os.Open(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to open config")
		}
		defer file.Close()

		err = yaml.NewDecoder(file).Decode(&config)
		if err != nil {
			return Config{}, errors.Wrap(err, "failed to decode config")
		}
	}

	err := applyEnv(&config)
	if err != nil {
		return Config{}, err
	}

	if config.Auth.TokenSecret == "" {
		return Config{}, errors.New("auth.tokenSecret is required")
	}
	if config.Auth.TokenTTL <= 0 {
		return Config{}, errors.New("auth.tokenTTL must be positive")
	}

	return config, nil
}

func (c Config) ToDomain() domain.Config {
	return domain.Config{
		TokenSecret: c.Auth.TokenSecret,
		TokenTTL:    c.Auth.TokenTTL,
		ImageDir:    c.Server.ImageDir,
	}
}

// missing files are fine
func loadDotEnv(path string) {
	envFiles := []string{".env", ".env.local"}
	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
	if path != "" {
		dir := filepath.Dir(path)
		for _, envFile := range envFiles {
			_ = godotenv.Load(filepath.Join(dir, envFile))
		}
	}
}

func applyEnv(config *Config) error {
	overrides := map[string]*string{
		"SAUCEBOX_TOKEN_SECRET":   &config.Auth.TokenSecret,
		"SAUCEBOX_POSTGRES_DSN":   &config.Server.PostgresDsn,
		"SAUCEBOX_REDIS_ADDR":     &config.Server.RedisAddr,
		"SAUCEBOX_REDIS_PASSWORD": &config.Server.RedisPassword,
		"SAUCEBOX_MEMCACHED_ADDR": &config.Server.MemcachedAddr,
		"SAUCEBOX_LISTEN":         &config.Server.Listen,
		"SAUCEBOX_IMAGE_DIR":      &config.Server.ImageDir,
	}
	for key, target := range overrides {
		if value, ok := os.LookupEnv(key); ok {
			*target = value
		}
	}

	if value, ok := os.LookupEnv("SAUCEBOX_TOKEN_TTL"); ok {
		ttl, err := time.ParseDuration(value)
		if err != nil {
			return errors.Wrap(err, "invalid SAUCEBOX_TOKEN_TTL")
		}
		config.Auth.TokenTTL = ttl
	}
	if value, ok := os.LookupEnv("SAUCEBOX_ENABLE_TRACE"); ok {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return errors.Wrap(err, "invalid SAUCEBOX_ENABLE_TRACE")
		}
		config.Server.EnableTrace = enabled
	}

	return nil
}
