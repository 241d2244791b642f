package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Bot      BotConfig      `mapstructure:"bot"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Server   ServerConfig   `mapstructure:"server"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Panel    PanelConfig    `mapstructure:"panel"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Queue    QueueConfig    `mapstructure:"queue"`
}

type BotConfig struct {
	Token          string  `mapstructure:"token"`
	AdminIDs       []int64 `mapstructure:"admin_ids"`
	ArchiveChatIDs []int64 `mapstructure:"archive_chat_ids"`
	// AutoDeleteDelay is how long delivered content stays before the sweeper
	// removes it, in seconds.
	AutoDeleteDelay    int `mapstructure:"auto_delete_delay"`
	SweepInterval      int `mapstructure:"sweep_interval"`
	BroadcastBatchSize int `mapstructure:"broadcast_batch_size"`
	BroadcastBatchWait int `mapstructure:"broadcast_batch_wait"`
}

type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"` // mysql, sqlite
	Host         string `mapstructure:"host"`
	Port         int    `mapstructure:"port"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	Database     string `mapstructure:"database"`
	Path         string `mapstructure:"path"` // sqlite file path
	MaxIdleConns int    `mapstructure:"max_idle_conns"`
	MaxOpenConns int    `mapstructure:"max_open_conns"`
}

type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

type JWTConfig struct {
	Secret      string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

type PanelConfig struct {
	AdminUsername string `mapstructure:"admin_username"`
	// AdminPasswordHash is a bcrypt hash, never the plain password.
	AdminPasswordHash string `mapstructure:"admin_password_hash"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	AllowedMethods []string `mapstructure:"allowed_methods"`
	AllowedHeaders []string `mapstructure:"allowed_headers"`
}

type QueueConfig struct {
	BroadcastQueue string `mapstructure:"broadcast_queue"`
}

func Load(configPath string) (*Config, error) {
	// Prefer config.local.yaml when present (real tokens, never committed).
	dir := filepath.Dir(configPath)
	localConfigPath := filepath.Join(dir, "config.local.yaml")

	if _, err := os.Stat(localConfigPath); err == nil {
		configPath = localConfigPath
	}

	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Bot.AutoDeleteDelay <= 0 {
		cfg.Bot.AutoDeleteDelay = 180
	}
	if cfg.Bot.SweepInterval <= 0 {
		cfg.Bot.SweepInterval = 60
	}
	if cfg.Bot.BroadcastBatchSize <= 0 {
		cfg.Bot.BroadcastBatchSize = 30
	}
	if cfg.Bot.BroadcastBatchWait <= 0 {
		cfg.Bot.BroadcastBatchWait = 1
	}
	if cfg.Queue.BroadcastQueue == "" {
		cfg.Queue.BroadcastQueue = "archive_bot:broadcast"
	}
}

// IsAdmin reports whether the Telegram user is a configured admin.
func (c *BotConfig) IsAdmin(tgUserID int64) bool {
	for _, id := range c.AdminIDs {
		if id == tgUserID {
			return true
		}
	}
	return false
}

// IsArchiveChat reports whether messages from this chat may be recorded
// into bundles.
func (c *BotConfig) IsArchiveChat(chatID int64) bool {
	for _, id := range c.ArchiveChatIDs {
		if id == chatID {
			return true
		}
	}
	return false
}
