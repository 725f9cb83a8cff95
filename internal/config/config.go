package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	envPrefix     = "BOOKSTORE_"
	EnvProduction = "production"
)

type Config struct {
	Service struct {
		Name     string `koanf:"name"`
		Env      string `koanf:"env"`
		HTTPAddr string `koanf:"http_addr"`
	} `koanf:"service"`

	Log struct {
		Level string `koanf:"level"`
		File  string `koanf:"file"`
	} `koanf:"log"`

	HTTP struct {
		ReadTimeout     time.Duration `koanf:"read_timeout"`
		WriteTimeout    time.Duration `koanf:"write_timeout"`
		ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	} `koanf:"http"`

	Upstreams struct {
		CatalogURL string `koanf:"catalog_url"`
		CartURL    string `koanf:"cart_url"`
		OrderURL   string `koanf:"order_url"`
	} `koanf:"upstreams"`

	HTTPClient struct {
		Timeout            time.Duration `koanf:"timeout"`
		BreakerMaxFailures uint32        `koanf:"breaker_max_failures"`
		BreakerOpenTimeout time.Duration `koanf:"breaker_open_timeout"`
	} `koanf:"http_client"`

	Cart struct {
		Store     string        `koanf:"store"`
		RedisAddr string        `koanf:"redis_addr"`
		RedisDB   int           `koanf:"redis_db"`
		TTL       time.Duration `koanf:"ttl"`
	} `koanf:"cart"`

	Order struct {
		CompensateStock bool `koanf:"compensate_stock"`
	} `koanf:"order"`

	Payment struct {
		SuccessRate    float64       `koanf:"success_rate"`
		GatewayLatency time.Duration `koanf:"gateway_latency"`
	} `koanf:"payment"`

	Refund struct {
		NotifyMaxRetries uint64        `koanf:"notify_max_retries"`
		NotifyBaseDelay  time.Duration `koanf:"notify_base_delay"`
	} `koanf:"refund"`
}

// Default returns the settings used when nothing overrides them. addr is the
// listen address of the service being configured.
func Default(service, addr string) Config {
	var c Config
	c.Service.Name = service
	c.Service.Env = "development"
	c.Service.HTTPAddr = addr
	c.Log.Level = "info"
	c.HTTP.ReadTimeout = 15 * time.Second
	c.HTTP.WriteTimeout = 30 * time.Second
	c.HTTP.ShutdownTimeout = 10 * time.Second
	c.Upstreams.CatalogURL = "http://localhost:3002"
	c.Upstreams.CartURL = "http://localhost:3003"
	c.Upstreams.OrderURL = "http://localhost:3004"
	c.HTTPClient.Timeout = 10 * time.Second
	c.HTTPClient.BreakerMaxFailures = 5
	c.HTTPClient.BreakerOpenTimeout = 30 * time.Second
	c.Cart.Store = "memory"
	c.Cart.RedisAddr = "localhost:6379"
	c.Payment.SuccessRate = 0.95
	c.Refund.NotifyMaxRetries = 3
	c.Refund.NotifyBaseDelay = 200 * time.Millisecond
	return c
}

// legacyEnv maps the plain variable names the services have always honoured.
var legacyEnv = map[string]string{
	"PORT":                "service.http_addr",
	"NODE_ENV":            "service.env",
	"LOG_FILE":            "log.file",
	"PRODUCT_SERVICE_URL": "upstreams.catalog_url",
	"CART_SERVICE_URL":    "upstreams.cart_url",
	"ORDER_SERVICE_URL":   "upstreams.order_url",
	"REDIS_ADDR":          "cart.redis_addr",
}

// Load layers, lowest first: defaults, the YAML file named by CONFIG_FILE,
// BOOKSTORE_* variables (nested with __), then the legacy plain variables.
func Load(base Config) (Config, error) {
	k := koanf.New(".")

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ReplaceAll(s, "__", ".")
		return strings.ToLower(s)
	}), nil); err != nil {
		return Config{}, fmt.Errorf("env overlay: %w", err)
	}

	if err := k.Load(env.Provider("", ".", func(s string) string {
		return legacyEnv[s]
	}), nil); err != nil {
		return Config{}, fmt.Errorf("legacy env overlay: %w", err)
	}

	cfg := base
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal: %w", err)
	}
	cfg.Service.HTTPAddr = normalizeAddr(cfg.Service.HTTPAddr)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if c.Service.Name == "" {
		errs = append(errs, errors.New("service.name required"))
	}
	if c.Service.HTTPAddr == "" {
		errs = append(errs, errors.New("service.http_addr required"))
	}
	for key, raw := range map[string]string{
		"upstreams.catalog_url": c.Upstreams.CatalogURL,
		"upstreams.cart_url":    c.Upstreams.CartURL,
		"upstreams.order_url":   c.Upstreams.OrderURL,
	} {
		if u, err := url.Parse(raw); err != nil || u.Scheme == "" || u.Host == "" {
			errs = append(errs, fmt.Errorf("%s must be an absolute URL, got %q", key, raw))
		}
	}
	if c.HTTPClient.Timeout <= 0 {
		errs = append(errs, errors.New("http_client.timeout must be positive"))
	}
	switch c.Cart.Store {
	case "memory":
	case "redis":
		if c.Cart.RedisAddr == "" {
			errs = append(errs, errors.New("cart.redis_addr required when cart.store is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf("cart.store must be memory or redis, got %q", c.Cart.Store))
	}
	if c.Payment.SuccessRate < 0 || c.Payment.SuccessRate > 1 {
		errs = append(errs, errors.New("payment.success_rate must be within [0, 1]"))
	}
	return errors.Join(errs...)
}

// IsProduction reports whether error details must be hidden from clients.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Service.Env, EnvProduction)
}

// normalizeAddr accepts a bare port number, as PORT usually is.
func normalizeAddr(addr string) string {
	if addr != "" && !strings.Contains(addr, ":") {
		return ":" + addr
	}
	return addr
}
