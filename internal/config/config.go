package config

import (
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"github.com/wb-go/wbf/retry"
	"github.com/wb-go/wbf/zlog"
)

// Config holds the main configuration for the forwarder.
type Config struct {
	Server    Server         `mapstructure:"server"`
	Database  Database       `mapstructure:"database"`
	Telegram  Telegram       `mapstructure:"telegram"`
	Forwarder Forwarder      `mapstructure:"forwarder"`
	Retry     retry.Strategy `mapstructure:"retry"` // startup connects only, never per-send
}

// Server holds HTTP server-related configuration for the ops API.
type Server struct {
	HTTPPort string `mapstructure:"http_port"` // HTTP port to listen on
}

// Database holds database master and slave configuration.
type Database struct {
	Master DatabaseNode   `mapstructure:"master"`
	Slaves []DatabaseNode `mapstructure:"slaves"`

	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DatabaseNode holds connection parameters for a single database node.
type DatabaseNode struct {
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	User    string `mapstructure:"user"`
	Pass    string `mapstructure:"pass"`
	Name    string `mapstructure:"name"`
	SSLMode string `mapstructure:"ssl_mode"`
}

// Telegram holds the bot session credential.
type Telegram struct {
	Token string `mapstructure:"token" validate:"required"`
}

// Forwarder holds the forwarding engine configuration.
type Forwarder struct {
	// DefaultChannelID receives every notification whose recipient is
	// empty, "self", or not present in the channel map.
	DefaultChannelID int64 `mapstructure:"default_channel_id" validate:"required"`

	// ChannelMap is a comma-separated list of recipient=channel_id
	// pairs, e.g. "ops=-1001234,alerts=-1005678". Parsed by
	// ParseChannelMap; malformed entries are skipped with a warning.
	ChannelMap string `mapstructure:"channel_map"`

	// PollInterval is the sleep between poll cycles. Fractional
	// seconds are allowed ("2.5s"); must be positive.
	PollInterval time.Duration `mapstructure:"poll_interval" validate:"gt=0"`
}

// DSN returns the PostgreSQL DSN string for connecting to this database node.
func (n DatabaseNode) DSN() string {
	return "postgres://" + n.User + ":" + n.Pass + "@" + n.Host + ":" + n.Port + "/" + n.Name + "?sslmode=" + n.SSLMode
}

// mustBindEnv binds critical environment variables to Viper keys.
//
// It panics if any environment variable cannot be bound.
func mustBindEnv() {
	bindings := map[string]string{
		"database.master.host": "DB_HOST",
		"database.master.port": "DB_PORT",
		"database.master.user": "DB_USER",
		"database.master.pass": "DB_PASSWORD",
		"database.master.name": "DB_NAME",

		"telegram.token": "TELEGRAM_TOKEN",

		"forwarder.default_channel_id": "DEFAULT_CHANNEL_ID",
		"forwarder.channel_map":        "CHANNEL_MAP",
		"forwarder.poll_interval":      "POLL_INTERVAL",
	}

	for key, env := range bindings {
		if err := viper.BindEnv(key, env); err != nil {
			zlog.Logger.Panic().Err(err).Msgf("failed to bind env %s", env)
		}
	}
}

// Must loads and validates the configuration from file and environment
// variables.
//
// Configuration errors are fatal by design: a missing token, a missing
// default channel id, or a non-positive poll interval panics before the
// engine ever starts polling.
func Must() *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to read config")
	}

	mustBindEnv()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msg("failed to unmarshal config")
	}

	if err := validator.New().Struct(&cfg); err != nil {
		zlog.Logger.Panic().Err(err).Msg("invalid config")
	}

	return &cfg
}

// ParseChannelMap parses a comma-separated list of recipient=channel_id
// pairs into the recipient routing table.
//
// Malformed entries (missing recipient, missing id, non-numeric id) are
// skipped with a warning and never block startup. A later duplicate key
// overwrites an earlier one.
func ParseChannelMap(raw string) map[string]int64 {
	mapping := make(map[string]int64)

	for _, entry := range strings.Split(raw, ",") {
		if strings.TrimSpace(entry) == "" {
			continue
		}

		recipient, idStr, found := strings.Cut(entry, "=")
		recipient = strings.TrimSpace(recipient)
		idStr = strings.TrimSpace(idStr)

		if !found || recipient == "" || idStr == "" {
			zlog.Logger.Warn().Str("entry", entry).Msg("ignoring malformed channel map entry")
			continue
		}

		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			zlog.Logger.Warn().Str("recipient", recipient).Str("channel_id", idStr).Msg("invalid channel id in channel map")
			continue
		}

		mapping[recipient] = id
	}

	return mapping
}
