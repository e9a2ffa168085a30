package config

import (
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port           string `mapstructure:"PORT"`
	GinMode        string `mapstructure:"GIN_MODE"`
	DatabaseDriver string `mapstructure:"DATABASE_DRIVER"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	JWTSecret      string `mapstructure:"JWT_SECRET"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	RoomCacheTTL  time.Duration `mapstructure:"ROOM_CACHE_TTL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	MessageMaxLength int    `mapstructure:"MESSAGE_MAX_LENGTH"`
	AnonymousNames   string `mapstructure:"ANONYMOUS_NAMES"`
}

var AppConfig *Config

var keys = []string{
	"PORT", "GIN_MODE", "DATABASE_DRIVER", "DATABASE_URL", "JWT_SECRET",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "ROOM_CACHE_TTL",
	"LOG_LEVEL", "LOG_PRETTY", "MESSAGE_MAX_LENGTH", "ANONYMOUS_NAMES",
}

// LoadConfig loads the configuration from a .env file in dir and environment variables.
func LoadConfig(dir string) *Config {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")

	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("ROOM_CACHE_TTL", 5*time.Minute)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("MESSAGE_MAX_LENGTH", 2000)

	v.AutomaticEnv()
	// Unmarshal only sees env values for keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		log.Println("Warning: .env file not found, loading from environment variables")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode into struct, %v", err)
	}

	AppConfig = &cfg
	return &cfg
}

// NamePool returns the configured anonymous names, or nil when the default pool should be used.
func (c *Config) NamePool() []string {
	if strings.TrimSpace(c.AnonymousNames) == "" {
		return nil
	}
	var names []string
	for _, n := range strings.Split(c.AnonymousNames, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
