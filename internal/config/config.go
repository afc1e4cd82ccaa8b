package config

import (
	"errors"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/schlagwetter/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Files      FilesConfig      `yaml:"files" mapstructure:"files"`
	Schema     model.Schema     `yaml:"schema" mapstructure:"schema"`
	Source     SourceConfig     `yaml:"source" mapstructure:"source"`
	Geocode    GeocodeConfig    `yaml:"geocode" mapstructure:"geocode"`
	Cards      CardsConfig      `yaml:"cards" mapstructure:"cards"`
	Provenance ProvenanceConfig `yaml:"provenance" mapstructure:"provenance"`
	Download   DownloadConfig   `yaml:"download" mapstructure:"download"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// FilesConfig holds the default paths of the interchange files.
type FilesConfig struct {
	JSONData      string `yaml:"json_data" mapstructure:"json_data"`
	CoordsData    string `yaml:"coords_data" mapstructure:"coords_data"`
	TopTrumpsData string `yaml:"top_trumps_data" mapstructure:"top_trumps_data"`
	XMLData       string `yaml:"xml_data" mapstructure:"xml_data"`
}

// SourceConfig describes where the raw dataset comes from.
type SourceConfig struct {
	PrimaryURL string `yaml:"primary_url" mapstructure:"primary_url"`
}

// GeocodeConfig configures the location lookup service.
type GeocodeConfig struct {
	URLTemplate string `yaml:"url_template" mapstructure:"url_template"`
	DelayMS     int    `yaml:"delay_ms" mapstructure:"delay_ms"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// CardsConfig configures the card deck sampler.
type CardsConfig struct {
	Count int `yaml:"count" mapstructure:"count"`
}

// ProvenanceConfig selects the provenance backend.
type ProvenanceConfig struct {
	Agent  string `yaml:"agent" mapstructure:"agent"`
	Driver string `yaml:"driver" mapstructure:"driver"`
	DSN    string `yaml:"dsn" mapstructure:"dsn"`
}

// DownloadConfig configures the primary source download.
type DownloadConfig struct {
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries  int    `yaml:"max_retries" mapstructure:"max_retries"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Default primary source of the mining accident archive.
const DefaultPrimaryURL = "http://download.codingdavinci.de/index.php/s/YxQy9bzJSXk5cF6/download?path=%2F&files=Data_Ungluecke_2019-08-13.xml"

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	// .env is optional; variables already set in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, eris.Wrap(err, "config: load .env")
	}

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCHLAGWETTER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("files.json_data", "mining_accidents_data.json")
	v.SetDefault("files.coords_data", "mine_coordinates.json")
	v.SetDefault("files.top_trumps_data", "top_trumps_data.json")
	v.SetDefault("files.xml_data", "Data_Ungluecke.xml")
	v.SetDefault("schema.root", "Datenbank")
	v.SetDefault("schema.records", "Grubenungluecke")
	v.SetDefault("schema.location", "Ort_Index")
	v.SetDefault("schema.mine", "Bergwerke_Index")
	v.SetDefault("schema.dead", "Tote")
	v.SetDefault("schema.dead_min", "Tote_min")
	v.SetDefault("schema.dead_max", "Tote_max")
	v.SetDefault("source.primary_url", DefaultPrimaryURL)
	v.SetDefault("geocode.url_template", "https://nominatim.openstreetmap.org/search/'{location}'")
	v.SetDefault("geocode.delay_ms", 100)
	v.SetDefault("geocode.user_agent", "schlagwetter/1.0")
	v.SetDefault("geocode.timeout_secs", 0)
	v.SetDefault("cards.count", 64)
	v.SetDefault("provenance.agent", "schlagwetter")
	v.SetDefault("provenance.driver", "sidecar")
	v.SetDefault("download.timeout_secs", 300)
	v.SetDefault("download.max_retries", 3)
	v.SetDefault("download.user_agent", "schlagwetter/1.0")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}

// Validate checks that the settings a command depends on are usable.
// Mode is the command family: "convert", "georeference", "cards", "download" or "inspect".
func (c *Config) Validate(mode string) error {
	var errs []string

	switch mode {
	case "convert", "download":
		errs = append(errs, c.validateProvenance()...)
		if mode == "download" && c.Source.PrimaryURL == "" {
			errs = append(errs, "source.primary_url is required")
		}
	case "georeference":
		if !strings.Contains(c.Geocode.URLTemplate, "{location}") {
			errs = append(errs, "geocode.url_template must contain {location}")
		}
		if c.Geocode.DelayMS < 0 {
			errs = append(errs, "geocode.delay_ms must be >= 0")
		}
		if c.Geocode.TimeoutSecs < 0 {
			errs = append(errs, "geocode.timeout_secs must be >= 0")
		}
	case "cards":
		if c.Cards.Count <= 0 {
			errs = append(errs, "cards.count must be > 0")
		}
	case "inspect":
		errs = append(errs, c.validateProvenance()...)
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if c.Schema.Root == "" || c.Schema.Records == "" {
		errs = append(errs, "schema.root and schema.records are required")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (c *Config) validateProvenance() []string {
	switch c.Provenance.Driver {
	case "sidecar":
		return nil
	case "sqlite", "postgres":
		if c.Provenance.DSN == "" {
			return []string{"provenance.dsn is required for driver " + c.Provenance.Driver}
		}
		return nil
	default:
		return []string{"provenance.driver must be one of sidecar, sqlite, postgres"}
	}
}
