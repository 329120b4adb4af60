package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Backend modes accepted in backend.mode.
const (
	BackendLocal  = "local"
	BackendRemote = "remote"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Local    LocalConfig    `mapstructure:"local"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// BackendConfig selects where routines live. An empty mode means "remote"
// when a database URI is configured and "local" otherwise.
type BackendConfig struct {
	Mode string `mapstructure:"mode"`
}

// LocalConfig points at the on-device SQLite file.
type LocalConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	URI  string `mapstructure:"uri"`
	Name string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether history exports have somewhere to go.
func (c S3Config) Enabled() bool {
	return c.BucketName != "" && c.Region != ""
}

// JWTConfig defines JWT specific configuration
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// LogConfig controls where log output goes. An empty File logs to stderr.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, jwt.expiration -> JWT_EXPIRATION
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	// Every key needs a default so that Unmarshal picks up its env variable.
	v.SetDefault("server.address", ":8080")
	v.SetDefault("backend.mode", "")
	v.SetDefault("local.path", "workouts.db")
	v.SetDefault("database.uri", "")
	v.SetDefault("database.name", "fitness_tracker")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.region", "")
	v.SetDefault("s3.access_key_id", "")
	v.SetDefault("s3.secret_access_key", "")
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiration", "1h")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)

	err = v.ReadInConfig()
	// A missing file is fine, env vars and defaults still apply.
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil
	} else if err != nil {
		return
	}

	if err = v.Unmarshal(&config); err != nil {
		return
	}

	config.Backend.Mode = strings.ToLower(strings.TrimSpace(config.Backend.Mode))
	if config.Backend.Mode == "" {
		config.Backend.Mode = BackendLocal
		if config.Database.URI != "" {
			config.Backend.Mode = BackendRemote
		}
	}
	if err = config.Validate(); err != nil {
		return
	}
	return config, nil
}

// Validate checks the combinations LoadConfig cannot default its way out of.
func (c Config) Validate() error {
	switch c.Backend.Mode {
	case BackendLocal:
	case BackendRemote:
		if c.Database.URI == "" {
			return fmt.Errorf("backend.mode %q requires database.uri", c.Backend.Mode)
		}
		if c.JWT.Secret == "" {
			return fmt.Errorf("backend.mode %q requires jwt.secret", c.Backend.Mode)
		}
	default:
		return fmt.Errorf("unknown backend.mode %q (want %q or %q)", c.Backend.Mode, BackendLocal, BackendRemote)
	}
	if c.Local.Path == "" {
		return fmt.Errorf("local.path cannot be empty")
	}
	return nil
}
