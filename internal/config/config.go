package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/haytac/emojiril/internal/logging"
)

// ServerConfig configures the HTTP rewrite service.
type ServerConfig struct {
	Addr         string        `mapstructure:"addr"`
	RateLimit    float64       `mapstructure:"rate_limit"` // requests per second, 0 disables
	Burst        int           `mapstructure:"burst"`
	MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// FeedConfig configures feed fetching.
type FeedConfig struct {
	Proxy     string        `mapstructure:"proxy"` // http://, https:// or socks5:// URL
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// AppConfig holds the application configuration.
type AppConfig struct {
	DatabasePath string         `mapstructure:"database_path"`
	AliasFile    string         `mapstructure:"alias_file"`
	EmojiPreset  bool           `mapstructure:"emoji_preset"`
	Prefix       string         `mapstructure:"prefix"`
	Suffix       string         `mapstructure:"suffix"`
	Sanitize     bool           `mapstructure:"sanitize"`
	SkipElements []string       `mapstructure:"skip_elements"`
	Log          logging.Config `mapstructure:"log"`
	Server       ServerConfig   `mapstructure:"server"`
	Feed         FeedConfig     `mapstructure:"feed"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*AppConfig, error) {
	v := viper.New()

	v.SetDefault("database_path", "./emojiril.db")
	v.SetDefault("alias_file", "")
	v.SetDefault("emoji_preset", true)
	v.SetDefault("prefix", "")
	v.SetDefault("suffix", "")
	v.SetDefault("sanitize", false)
	v.SetDefault("skip_elements", []string{"script", "style"})
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.time_format", time.RFC3339)
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.rate_limit", 50.0)
	v.SetDefault("server.burst", 100)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 10*time.Second)
	v.SetDefault("feed.proxy", "")
	v.SetDefault("feed.timeout", 30*time.Second)
	v.SetDefault("feed.user_agent", "emojiril/1.0")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.emojiril")
		v.AddConfigPath("/etc/emojiril/")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	v.SetEnvPrefix("EMOJIRIL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
