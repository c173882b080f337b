package config

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Timeline TimelineConfig `yaml:"timeline" mapstructure:"timeline"`
	Photos   PhotosConfig   `yaml:"photos" mapstructure:"photos"`
	Batch    BatchConfig    `yaml:"batch" mapstructure:"batch"`
	Exif     ExifConfig     `yaml:"exif" mapstructure:"exif"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// TimelineConfig points at the location history export.
type TimelineConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// PhotosConfig configures which photos are tagged and how their capture time
// is read.
type PhotosConfig struct {
	Dir        string   `yaml:"dir" mapstructure:"dir"`
	Timezone   string   `yaml:"timezone" mapstructure:"timezone" validate:"required"`
	Extensions []string `yaml:"extensions" mapstructure:"extensions" validate:"min=1,dive,required"`
}

// BatchConfig configures batch processing.
type BatchConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency" validate:"gte=1,lte=256"`
}

// ExifConfig selects the metadata reader/writer.
type ExifConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider" validate:"omitempty,oneof=exiftool"`
	ExifToolPath string `yaml:"exiftool_path" mapstructure:"exiftool_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level" validate:"required"`
	Format string `yaml:"format" mapstructure:"format" validate:"oneof=json console"`
}

// Load reads configuration from .env, file and environment.
func Load() (*Config, error) {
	// Load .env into environment (ignore if missing)
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("GEOTAG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("timeline.path", "")
	v.SetDefault("photos.dir", "")
	v.SetDefault("photos.timezone", "UTC")
	v.SetDefault("photos.extensions", []string{"jpg", "jpeg", "png"})
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("exif.provider", "exiftool")
	v.SetDefault("exif.exiftool_path", "exiftool")
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

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return eris.Wrap(err, "config: validate")
	}
	return nil
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
