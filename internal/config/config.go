package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/hackdays-io/toban-indexer/internal/domain"
	"github.com/hackdays-io/toban-indexer/internal/registry"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadHost        string        `mapstructure:"read_host"`
	ReadPort        int           `mapstructure:"read_port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`     // Maximum number of open connections to the database
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`     // Maximum number of idle connections in the pool
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`  // e.g., "5m", "1h"
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"` // e.g., "10m", "30m"
}

// NATSConfig holds NATS JetStream configuration
type NATSConfig struct {
	URL             string          `mapstructure:"url"`
	StreamName      string          `mapstructure:"stream_name"`
	ConsumerName    string          `mapstructure:"consumer_name"`
	MaxReconnects   int             `mapstructure:"max_reconnects"`
	ReconnectWait   time.Duration   `mapstructure:"reconnect_wait"`
	ConnectionName  string          `mapstructure:"connection_name"`
	AckWait         time.Duration   `mapstructure:"ack_wait"`
	MaxDeliver      int             `mapstructure:"max_deliver"` // -1 redelivers until the event is handled
	DuplicateWindow time.Duration   `mapstructure:"duplicate_window"`
	MaxAge          time.Duration   `mapstructure:"max_age"`
	FilterSubject   string          `mapstructure:"filter_subject"`
	RetryBackoff    []time.Duration `mapstructure:"retry_backoff"`
}

// EthereumConfig holds EVM chain configuration
type EthereumConfig struct {
	WebSocketURL        string        `mapstructure:"websocket_url"`
	RPCURL              string        `mapstructure:"rpc_url"`
	ChainID             domain.Chain  `mapstructure:"chain_id"`
	StartBlock          uint64        `mapstructure:"start_block"`
	LogStepSize         uint64        `mapstructure:"log_step_size"`      // blocks per eth_getLogs request
	CatchUpPageSize     uint64        `mapstructure:"catch_up_page_size"` // blocks delivered per catch-up page
	ReconnectMaxElapsed time.Duration `mapstructure:"reconnect_max_elapsed"`
}

// BlockCacheConfig holds the block header cache configuration
type BlockCacheConfig struct {
	TTL              time.Duration `mapstructure:"ttl"`
	StaleWindow      time.Duration `mapstructure:"stale_window"`
	MaxTimestamps    int           `mapstructure:"max_timestamps"`
	FetchConcurrency int           `mapstructure:"fetch_concurrency"`
}

// CursorConfig controls how often the emitter persists its block cursor
type CursorConfig struct {
	SaveFrequency uint64        `mapstructure:"save_frequency"` // in blocks
	SaveDelay     time.Duration `mapstructure:"save_delay"`
}

// RateLimitConfig throttles JSON-RPC requests across every emitter sharing the Redis instance
type RateLimitConfig struct {
	Enabled                 bool    `mapstructure:"enabled"`
	RedisAddr               string  `mapstructure:"redis_addr"`
	RedisPassword           string  `mapstructure:"redis_password"`
	RedisDB                 int     `mapstructure:"redis_db"`
	KeyPrefix               string  `mapstructure:"key_prefix"`
	RequestsPerSecond       int     `mapstructure:"requests_per_second"`
	Burst                   int     `mapstructure:"burst"`
	LocalFallback           bool    `mapstructure:"local_fallback"`
	LocalFallbackMultiplier float64 `mapstructure:"local_fallback_multiplier"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MetricsConfig holds the Prometheus listener configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Address string `mapstructure:"address"`
}

// DataSourcesConfig lists the static contracts to index.
// Sources can be listed inline, read from a deployment manifest, or both.
type DataSourcesConfig struct {
	DataSources     []registry.Source `mapstructure:"data_sources"`
	DataSourcesFile string            `mapstructure:"data_sources_file"`
}

// EmitterConfig holds configuration for event-emitter
type EmitterConfig struct {
	BaseConfig        `mapstructure:",squash"`
	DataSourcesConfig `mapstructure:",squash"`
	Database          DatabaseConfig   `mapstructure:"database"`
	NATS              NATSConfig       `mapstructure:"nats"`
	Ethereum          EthereumConfig   `mapstructure:"ethereum"`
	BlockCache        BlockCacheConfig `mapstructure:"block_cache"`
	Cursor            CursorConfig     `mapstructure:"cursor"`
	RateLimit         RateLimitConfig  `mapstructure:"rate_limit"`
	PublishMaxElapsed time.Duration    `mapstructure:"publish_max_elapsed"`
}

// ProcessorConfig holds configuration for event-processor
type ProcessorConfig struct {
	BaseConfig        `mapstructure:",squash"`
	DataSourcesConfig `mapstructure:",squash"`
	Database          DatabaseConfig `mapstructure:"database"`
	NATS              NATSConfig     `mapstructure:"nats"`
	Ethereum          EthereumConfig `mapstructure:"ethereum"`
	Metrics           MetricsConfig  `mapstructure:"metrics"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig   `mapstructure:"server"`
	Database   DatabaseConfig `mapstructure:"database"`
	Ethereum   EthereumConfig `mapstructure:"ethereum"`
}

// LoadEmitterConfig loads configuration for event-emitter
func LoadEmitterConfig(configFile string, envPath string) (*EmitterConfig, error) {
	v := configureViper("event-emitter", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setEthereumDefaults(v)
	v.SetDefault("nats.connection_name", "event-emitter")
	v.SetDefault("block_cache.ttl", "2s")
	v.SetDefault("block_cache.stale_window", "1m")
	v.SetDefault("block_cache.max_timestamps", 100000)
	v.SetDefault("block_cache.fetch_concurrency", 8)
	v.SetDefault("cursor.save_frequency", 100)
	v.SetDefault("cursor.save_delay", "10s")
	v.SetDefault("publish_max_elapsed", "1m")
	v.SetDefault("rate_limit.enabled", false)
	v.SetDefault("rate_limit.key_prefix", "toban:indexer:limiter:")
	v.SetDefault("rate_limit.requests_per_second", 25)
	v.SetDefault("rate_limit.local_fallback", true)
	v.SetDefault("rate_limit.local_fallback_multiplier", 0.5)

	var config EmitterConfig
	if err := load(v, &config); err != nil {
		return nil, err
	}

	if config.Ethereum.WebSocketURL == "" {
		return nil, errors.New("ethereum.websocket_url is required")
	}
	if err := validateChain(config.Ethereum.ChainID); err != nil {
		return nil, err
	}
	if config.RateLimit.Enabled && config.RateLimit.RedisAddr == "" {
		return nil, errors.New("rate_limit.redis_addr is required when rate_limit.enabled is set")
	}

	return &config, nil
}

// LoadProcessorConfig loads configuration for event-processor
func LoadProcessorConfig(configFile string, envPath string) (*ProcessorConfig, error) {
	v := configureViper("event-processor", configFile, envPath)

	// Set defaults
	setDatabaseDefaults(v)
	setNATSDefaults(v)
	setEthereumDefaults(v)
	v.SetDefault("nats.connection_name", "event-processor")
	v.SetDefault("nats.consumer_name", "event-processor")
	v.SetDefault("nats.ack_wait", "30s")
	v.SetDefault("nats.max_deliver", -1)
	v.SetDefault("nats.retry_backoff", []string{"1s", "5s", "15s", "30s", "1m"})
	v.SetDefault("nats.filter_subject", "events.>")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.address", ":9090")

	var config ProcessorConfig
	if err := load(v, &config); err != nil {
		return nil, err
	}

	if err := validateChain(config.Ethereum.ChainID); err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 10)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("server.allowed_origins", []string{"*"})
	setDatabaseDefaults(v)
	setEthereumDefaults(v)

	var config APIConfig
	if err := load(v, &config); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDatabaseDefaults(v *viper.Viper) {
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "1h")
	v.SetDefault("database.conn_max_idle_time", "10m")
}

func setNATSDefaults(v *viper.Viper) {
	v.SetDefault("nats.max_reconnects", 10)
	v.SetDefault("nats.reconnect_wait", "2s")
	v.SetDefault("nats.stream_name", "TOBAN_EVENTS")
	v.SetDefault("nats.duplicate_window", "2m")
}

func setEthereumDefaults(v *viper.Viper) {
	v.SetDefault("ethereum.chain_id", string(domain.ChainBaseMainnet))
	v.SetDefault("ethereum.log_step_size", 10000)
	v.SetDefault("ethereum.catch_up_page_size", 2000)
	v.SetDefault("ethereum.reconnect_max_elapsed", "15m")
}

// load reads the config file, tolerating a missing one, and decodes it into out
func load(v *viper.Viper, out interface{}) error {
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use environment variables
	}

	if err := v.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return nil
}

func validateChain(chain domain.Chain) error {
	if !domain.IsValidChain(chain) {
		return fmt.Errorf("unsupported ethereum.chain_id %q", chain)
	}
	return nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/event-emitter/, cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("TOBAN_INDEXER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Data sources
		"data_sources_file",
		// Database
		"database.host",
		"database.port",
		"database.read_host",
		"database.read_port",
		"database.user",
		"database.password",
		"database.dbname",
		"database.sslmode",
		"database.max_open_conns",
		"database.max_idle_conns",
		"database.conn_max_lifetime",
		"database.conn_max_idle_time",
		// NATS
		"nats.url",
		"nats.stream_name",
		"nats.consumer_name",
		"nats.max_reconnects",
		"nats.reconnect_wait",
		"nats.connection_name",
		"nats.ack_wait",
		"nats.max_deliver",
		"nats.duplicate_window",
		"nats.max_age",
		"nats.filter_subject",
		"nats.retry_backoff",
		// Ethereum
		"ethereum.websocket_url",
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.start_block",
		"ethereum.log_step_size",
		"ethereum.catch_up_page_size",
		"ethereum.reconnect_max_elapsed",
		// Block cache
		"block_cache.ttl",
		"block_cache.stale_window",
		"block_cache.max_timestamps",
		"block_cache.fetch_concurrency",
		// Emitter
		"cursor.save_frequency",
		"cursor.save_delay",
		"publish_max_elapsed",
		// Rate limit
		"rate_limit.enabled",
		"rate_limit.redis_addr",
		"rate_limit.redis_password",
		"rate_limit.redis_db",
		"rate_limit.key_prefix",
		"rate_limit.requests_per_second",
		"rate_limit.burst",
		"rate_limit.local_fallback",
		"rate_limit.local_fallback_multiplier",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Metrics
		"metrics.enabled",
		"metrics.address",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}

// DSN returns the database connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// ReadDSN returns the read-replica database connection string.
// It falls back to the primary when no read host is configured.
func (c *DatabaseConfig) ReadDSN() string {
	if c.ReadHost == "" {
		return c.DSN()
	}

	port := c.ReadPort
	if port == 0 {
		port = c.Port
	}

	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.ReadHost, port, c.User, c.Password, c.DBName, c.SSLMode)
}
