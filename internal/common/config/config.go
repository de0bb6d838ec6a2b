package config

import (
	"time"
)

// ============================================================
// Configuration
// ============================================================

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Logging   LoggingConfig   `yaml:"logging"`
	Storage   StorageConfig   `yaml:"storage"`
	Services  ServicesConfig  `yaml:"services"`
	Placement PlacementConfig `yaml:"placement"`
}

type ServerConfig struct {
	Port         string   `yaml:"port"`
	Environment  string   `yaml:"environment"`
	ReadTimeout  int      `yaml:"read_timeout"`  // секунды
	WriteTimeout int      `yaml:"write_timeout"` // секунды
	CORSOrigins  []string `yaml:"cors_origins"`
}

type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// ServicesConfig - адреса внешних сервисов для gateway.
type ServicesConfig struct {
	ConfiguratorURL string        `yaml:"configurator_url"`
	PVGISURL        string        `yaml:"pvgis_url"`
	PVGISTimeout    time.Duration `yaml:"pvgis_timeout"`
}

// PlacementConfig - сетка привязки и каталог модулей для движка размещения.
type PlacementConfig struct {
	GridSize   float64 `yaml:"grid_size"`
	MinSpacing float64 `yaml:"min_spacing"`
	TileWidth  float64 `yaml:"tile_width"`
	TileDepth  float64 `yaml:"tile_depth"`
}

// Default возвращает конфигурацию со значениями по умолчанию.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Environment:  "development",
			ReadTimeout:  10,
			WriteTimeout: 10,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Storage: StorageConfig{
			DBPath: "data/db/configurator.db",
		},
		Services: ServicesConfig{
			ConfiguratorURL: "http://localhost:3001",
			PVGISURL:        "https://re.jrc.ec.europa.eu/api/v5_3",
			PVGISTimeout:    30 * time.Second,
		},
		Placement: PlacementConfig{
			GridSize:   0.1,
			MinSpacing: 0.1,
			TileWidth:  1.0,
			TileDepth:  1.7,
		},
	}
}

func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeout) * time.Second
}

func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Server.WriteTimeout) * time.Second
}
