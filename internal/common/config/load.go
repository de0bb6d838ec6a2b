package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load собирает конфигурацию: defaults < yaml файл < переменные окружения.
func Load() (*Config, error) {
	cfg := Default()

	path := getEnv("CONFIG_PATH", "")
	if path == "" {
		if _, err := os.Stat("config.yaml"); err == nil {
			path = "config.yaml"
		}
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, fmt.Errorf("load config from %s: %w", path, err)
		}
	}

	applyEnv(cfg)
	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) {
	cfg.Server.Port = getEnv("PORT", cfg.Server.Port)
	cfg.Server.Environment = getEnv("ENV", cfg.Server.Environment)
	cfg.Server.ReadTimeout = getEnvAsInt("READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = getEnvAsInt("WRITE_TIMEOUT", cfg.Server.WriteTimeout)

	cfg.Logging.Level = getEnv("LOG_LEVEL", cfg.Logging.Level)
	cfg.Logging.LogFile = getEnv("LOG_FILE", cfg.Logging.LogFile)

	cfg.Storage.DBPath = getEnv("DB_PATH", cfg.Storage.DBPath)

	cfg.Services.ConfiguratorURL = getEnv("CONFIGURATOR_URL", cfg.Services.ConfiguratorURL)
	cfg.Services.PVGISURL = getEnv("PVGIS_URL", cfg.Services.PVGISURL)
	cfg.Services.PVGISTimeout = getEnvAsDuration("PVGIS_TIMEOUT", cfg.Services.PVGISTimeout)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultVal
}
