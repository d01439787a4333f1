package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "NEWSPORTAL"

type Config struct {
	Env        string
	HTTPServer HTTPServer
	API        API
	Portal     Portal
	Session    Session
	Database   Database
	Redis      Redis
}

type HTTPServer struct {
	Address string
	Port    int
}

type API struct {
	BaseURL     string
	AssetOrigin string
	Timeout     time.Duration
}

type Portal struct {
	FallbackImage string
	MaxImageBytes int64
}

type Session struct {
	CookieName string
	Secret     string
	TTL        time.Duration
}

type Database struct {
	Path string
}

type Redis struct {
	Address  string
	Port     int
	Password string
	DB       int
	PoolSize int
	TTL      time.Duration
}

// Enabled reports whether a Redis address was configured.
func (r Redis) Enabled() bool {
	return strings.TrimSpace(r.Address) != ""
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")

	v.SetDefault("http_server.address", "0.0.0.0")
	v.SetDefault("http_server.port", 8080)

	v.SetDefault("api.base_url", "http://localhost:3000/api")
	v.SetDefault("api.asset_origin", "")
	v.SetDefault("api.timeout", time.Duration(0))

	v.SetDefault("portal.fallback_image", "https://placehold.co/600x400/e2e8f0/1e293b?text=No+Image")
	v.SetDefault("portal.max_image_bytes", 5<<20)

	v.SetDefault("session.cookie_name", "portal_session")
	v.SetDefault("session.secret", "")
	v.SetDefault("session.ttl", 24*time.Hour)

	v.SetDefault("database.path", "data/badger")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.ttl", time.Minute)
}

// Load reads configuration from defaults, an optional config/config.yaml and
// NEWSPORTAL_* environment variables, in increasing order of precedence.
// A .env file in the working directory is loaded into the environment first.
func Load(paths ...string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if len(paths) == 0 {
		paths = []string{"./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env: v.GetString("env"),
		HTTPServer: HTTPServer{
			Address: v.GetString("http_server.address"),
			Port:    v.GetInt("http_server.port"),
		},
		API: API{
			BaseURL:     strings.TrimRight(v.GetString("api.base_url"), "/"),
			AssetOrigin: v.GetString("api.asset_origin"),
			Timeout:     v.GetDuration("api.timeout"),
		},
		Portal: Portal{
			FallbackImage: v.GetString("portal.fallback_image"),
			MaxImageBytes: v.GetInt64("portal.max_image_bytes"),
		},
		Session: Session{
			CookieName: v.GetString("session.cookie_name"),
			Secret:     v.GetString("session.secret"),
			TTL:        v.GetDuration("session.ttl"),
		},
		Database: Database{
			Path: v.GetString("database.path"),
		},
		Redis: Redis{
			Address:  v.GetString("redis.address"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
			PoolSize: v.GetInt("redis.pool_size"),
			TTL:      v.GetDuration("redis.ttl"),
		},
	}

	if cfg.API.AssetOrigin == "" {
		origin, err := OriginOf(cfg.API.BaseURL)
		if err != nil {
			return nil, err
		}
		cfg.API.AssetOrigin = origin
	}

	return cfg, nil
}

// MustLoad is Load for program start-up: any error terminates the process.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Printf("Error loading config: %s", err)
		os.Exit(1)
	}
	return cfg
}

// OriginOf returns the scheme and host of a base URL, e.g.
// "http://localhost:3000" for "http://localhost:3000/api".
func OriginOf(baseURL string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid api base url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("invalid api base url %q: scheme and host are required", baseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// ListenAddr joins the HTTP server address and port.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPServer.Address, c.HTTPServer.Port)
}
