package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration. It is loaded once at startup
// and never mutated afterwards.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Redis      RedisConfig      `mapstructure:"redis"`
	HTTPClient HTTPClientConfig `mapstructure:"http_client"`
	PayMongo   PayMongoConfig   `mapstructure:"paymongo"`
	Stripe     StripeConfig     `mapstructure:"stripe"`
	Paymaya    PaymayaConfig    `mapstructure:"paymaya"`
	Checkout   CheckoutConfig   `mapstructure:"checkout"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Kafka      KafkaConfig      `mapstructure:"kafka"`
	Tracing    TracingConfig    `mapstructure:"tracing"`
	Log        LogConfig        `mapstructure:"log"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Address      string        `mapstructure:"address"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	IdleTimeout  time.Duration `mapstructure:"idle_timeout"`

	// AllowedOrigins lists the storefront origins allowed by CORS. Empty allows any.
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	AutoMigrate     bool          `mapstructure:"auto_migrate"`
}

// DSN returns the database connection string.
func (c *DatabaseConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Database, c.SSLMode,
	)
	if c.Password != "" {
		dsn += fmt.Sprintf(" password=%s", c.Password)
	}
	return dsn
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// HTTPClientConfig holds outbound HTTP client configuration.
type HTTPClientConfig struct {
	DialTimeout         time.Duration `mapstructure:"dial_timeout"`
	KeepAlive           time.Duration `mapstructure:"keep_alive"`
	MaxIdleConns        int           `mapstructure:"max_idle_conns"`
	MaxIdleConnsPerHost int           `mapstructure:"max_idle_conns_per_host"`
	MaxConnsPerHost     int           `mapstructure:"max_conns_per_host"`
	IdleConnTimeout     time.Duration `mapstructure:"idle_conn_timeout"`
	TLSHandshakeTimeout time.Duration `mapstructure:"tls_handshake_timeout"`
	ResponseTimeout     time.Duration `mapstructure:"response_timeout"`
}

// BreakerConfig holds circuit breaker settings for a processor client.
type BreakerConfig struct {
	FailureThreshold uint32        `mapstructure:"failure_threshold"`
	Interval         time.Duration `mapstructure:"interval"`
	Timeout          time.Duration `mapstructure:"timeout"`
}

// PayMongoConfig holds PayMongo API configuration.
type PayMongoConfig struct {
	BaseURL       string        `mapstructure:"base_url"`
	TestMode      bool          `mapstructure:"test_mode"`
	DebugMode     bool          `mapstructure:"debug_mode"`
	PublicKey     string        `mapstructure:"public_key"`
	SecretKey     string        `mapstructure:"secret_key"`
	TestPublicKey string        `mapstructure:"test_public_key"`
	TestSecretKey string        `mapstructure:"test_secret_key"`
	Breaker       BreakerConfig `mapstructure:"breaker"`
}

// ActiveSecretKey returns the secret key matching the configured mode.
func (c *PayMongoConfig) ActiveSecretKey() string {
	if c.TestMode {
		return c.TestSecretKey
	}
	return c.SecretKey
}

// ActivePublicKey returns the public key matching the configured mode.
func (c *PayMongoConfig) ActivePublicKey() string {
	if c.TestMode {
		return c.TestPublicKey
	}
	return c.PublicKey
}

// StripeConfig holds Stripe configuration, used when the card processor is stripe.
type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key"`
}

// PaymayaConfig holds PayMaya checkout configuration.
type PaymayaConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	BaseURL      string        `mapstructure:"base_url"`
	PublicKey    string        `mapstructure:"public_key"`
	SecretKey    string        `mapstructure:"secret_key"`
	SyncWebhooks bool          `mapstructure:"sync_webhooks"`
	Breaker      BreakerConfig `mapstructure:"breaker"`
}

// CheckoutConfig holds storefront-facing checkout settings.
type CheckoutConfig struct {
	// Processor selects the card/intent processor: "paymongo" or "stripe".
	Processor string `mapstructure:"processor"`
	// PublicBaseURL is where processors reach this service (webhooks).
	PublicBaseURL string `mapstructure:"public_base_url"`
	// StorefrontURL is the storefront home the customer returns to.
	StorefrontURL string        `mapstructure:"storefront_url"`
	Agent         string        `mapstructure:"agent"`
	Version       string        `mapstructure:"version"`
	NoticeTTL     time.Duration `mapstructure:"notice_ttl"`
}

// AuthConfig holds service-to-service authentication configuration.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
}

// StorageConfig holds object storage configuration for webhook payload archival.
type StorageConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	Bucket          string `mapstructure:"bucket"`
}

// KafkaConfig holds domain event publishing configuration.
type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// TracingConfig holds OpenTelemetry configuration.
type TracingConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ServiceName string `mapstructure:"service_name"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load loads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/paymongo-checkout")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// Config file not found, use defaults and env
	}

	v.SetEnvPrefix("PAYMONGO")
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// Sensitive values
	if key := os.Getenv("PAYMONGO_SECRET_KEY"); key != "" {
		cfg.PayMongo.SecretKey = key
	}
	if key := os.Getenv("PAYMONGO_TEST_SECRET_KEY"); key != "" {
		cfg.PayMongo.TestSecretKey = key
	}
	if key := os.Getenv("PAYMONGO_PAYMAYA_SECRET_KEY"); key != "" {
		cfg.Paymaya.SecretKey = key
	}
	if key := os.Getenv("PAYMONGO_STRIPE_SECRET_KEY"); key != "" {
		cfg.Stripe.SecretKey = key
	}
	if secret := os.Getenv("PAYMONGO_JWT_SECRET"); secret != "" {
		cfg.Auth.JWTSecret = secret
	}
	if password := os.Getenv("PAYMONGO_DB_PASSWORD"); password != "" {
		cfg.Database.Password = password
	}
	if password := os.Getenv("PAYMONGO_REDIS_PASSWORD"); password != "" {
		cfg.Redis.Password = password
	}
	if key := os.Getenv("PAYMONGO_STORAGE_SECRET_KEY"); key != "" {
		cfg.Storage.SecretAccessKey = key
	}

	return &cfg, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 120*time.Second)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.database", "checkout")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.conn_max_lifetime", time.Hour)
	v.SetDefault("database.conn_max_idle_time", 30*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	// Redis defaults
	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// HTTP client defaults
	v.SetDefault("http_client.dial_timeout", 10*time.Second)
	v.SetDefault("http_client.keep_alive", 30*time.Second)
	v.SetDefault("http_client.max_idle_conns", 100)
	v.SetDefault("http_client.max_idle_conns_per_host", 10)
	v.SetDefault("http_client.idle_conn_timeout", 90*time.Second)
	v.SetDefault("http_client.tls_handshake_timeout", 10*time.Second)
	v.SetDefault("http_client.response_timeout", 30*time.Second)

	// PayMongo defaults
	v.SetDefault("paymongo.base_url", "https://api.paymongo.com/v1")
	v.SetDefault("paymongo.test_mode", true)
	v.SetDefault("paymongo.breaker.failure_threshold", 5)
	v.SetDefault("paymongo.breaker.interval", 60*time.Second)
	v.SetDefault("paymongo.breaker.timeout", 30*time.Second)

	// PayMaya defaults
	v.SetDefault("paymaya.base_url", "https://pg-sandbox.paymaya.com")
	v.SetDefault("paymaya.breaker.failure_threshold", 5)
	v.SetDefault("paymaya.breaker.interval", 60*time.Second)
	v.SetDefault("paymaya.breaker.timeout", 30*time.Second)

	// Checkout defaults
	v.SetDefault("checkout.processor", "paymongo")
	v.SetDefault("checkout.public_base_url", "http://localhost:8080")
	v.SetDefault("checkout.storefront_url", "http://localhost:8000")
	v.SetDefault("checkout.agent", "cynder_woocommerce")
	v.SetDefault("checkout.version", "1.0.0")
	v.SetDefault("checkout.notice_ttl", 30*time.Minute)

	// Kafka defaults
	v.SetDefault("kafka.topic", "checkout-events")

	// Tracing defaults
	v.SetDefault("tracing.service_name", "paymongo-checkout")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
