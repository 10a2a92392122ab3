package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del diario.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
	Normalizer NormalizerConfig `yaml:"normalizer"`
	Analytics  AnalyticsConfig  `yaml:"analytics"`
}

// ServerConfig controla la API HTTP.
type ServerConfig struct {
	Addr               string  `yaml:"addr"`
	RequestsPerSecond  float64 `yaml:"requests_per_second"` // 0 = sin límite
	Burst              int     `yaml:"burst"`
	ReadTimeoutSeconds int     `yaml:"read_timeout_seconds"`
}

// StorageConfig controla dónde se persisten los datos.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// NormalizerConfig endurece la normalización de los formularios de trade.
type NormalizerConfig struct {
	StrictNumbers bool `yaml:"strict_numbers"` // números malformados → 400 en vez de omitirse
	StrictEnums   bool `yaml:"strict_enums"`   // optionType/outcomeColor/strategy deben ser conocidos
}

// AnalyticsConfig controla las vistas derivadas.
type AnalyticsConfig struct {
	DefaultWeeks int `yaml:"default_weeks"` // 0 = todas las semanas
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Las variables de entorno sobreescriben los valores del YAML.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Config, error) {
	// Defaults cuyo cero es un valor válido: se fijan antes del Unmarshal
	// para que solo una key explícita los cambie.
	cfg := Config{
		Server:     ServerConfig{RequestsPerSecond: 20},
		Normalizer: NormalizerConfig{StrictEnums: true},
		Analytics:  AnalyticsConfig{DefaultWeeks: 8},
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
	}

	applyEnvOverrides(&cfg)
	setDefaults(&cfg)

	return &cfg, nil
}

// ReadTimeout devuelve el timeout de lectura HTTP como time.Duration.
func (c *Config) ReadTimeout() time.Duration {
	return time.Duration(c.Server.ReadTimeoutSeconds) * time.Second
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("JOURNAL_DSN"); v != "" {
		cfg.Storage.DSN = v
	}
	if v := os.Getenv("JOURNAL_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
}

// setDefaults asegura que los valores requeridos tengan valores sensatos.
func setDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":3000"
	}
	if cfg.Server.RequestsPerSecond < 0 {
		cfg.Server.RequestsPerSecond = 20
	}
	if cfg.Server.Burst <= 0 {
		cfg.Server.Burst = 40
	}
	if cfg.Server.ReadTimeoutSeconds <= 0 {
		cfg.Server.ReadTimeoutSeconds = 10
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "journal.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
	if cfg.Analytics.DefaultWeeks < 0 {
		cfg.Analytics.DefaultWeeks = 8
	}
}
