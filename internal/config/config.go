// Package config loads runtime settings from the environment, optionally
// layered over a YAML file named by QUOTE_CONFIG_FILE.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lemonexport/quote-engine/internal/model"
)

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Port            string        `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	LogLevel        string        `yaml:"log_level"`

	DatabaseURL     string        `yaml:"database_url"`
	RedisURL        string        `yaml:"redis_url"`
	CatalogCacheTTL time.Duration `yaml:"catalog_cache_ttl"`

	SearchURL    string  `yaml:"search_url"`
	SearchAPIKey string  `yaml:"search_api_key"`
	SearchRPS    float64 `yaml:"search_rps"`
	SearchBurst  int     `yaml:"search_burst"`

	LookupTimeout time.Duration `yaml:"lookup_timeout"`
	RateTimeout   time.Duration `yaml:"rate_timeout"`
	SessionTTL    time.Duration `yaml:"session_ttl"`

	Pricing Pricing `yaml:"pricing"`
}

// Pricing holds the quote constants and per-condition fee defaults.
type Pricing struct {
	SourceCurrency     string             `yaml:"source_currency"`
	TargetCurrency     string             `yaml:"target_currency"`
	DefaultRates       map[string]float64 `yaml:"default_rates"`
	FallbackRate       float64            `yaml:"fallback_rate"`
	RateBand           [2]float64         `yaml:"rate_band"`
	PriceBand          [2]float64         `yaml:"price_band"`
	PurchaseTaxDivisor float64            `yaml:"purchase_tax_divisor"`
	VATRate            float64            `yaml:"vat_rate"`
	NewFees            map[string]string  `yaml:"new_fees"`
	UsedFees           map[string]string  `yaml:"used_fees"`
}

// FeeDefaults returns the seeded fee text for a condition, keyed by field.
// Unknown field names in the config are dropped.
func (p Pricing) FeeDefaults(cond model.Condition) map[model.FeeField]string {
	src := p.NewFees
	if cond.Used() {
		src = p.UsedFees
	}
	out := make(map[model.FeeField]string, len(src))
	for k, v := range src {
		f := model.FeeField(k)
		if model.ValidFeeField(f) {
			out[f] = v
		}
	}
	return out
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	shared := map[string]string{
		string(model.FeeCompulsoryInsurance): "950",
		string(model.FeeDomesticFreight):     "1500",
		string(model.FeeChannel):             "1000",
		string(model.FeePortMisc):            "2600",
		string(model.FeeCustoms):             "500",
	}
	newFees := map[string]string{string(model.FeeRegistration): "500"}
	usedFees := map[string]string{string(model.FeeRegistration): "800"}
	for k, v := range shared {
		newFees[k] = v
		usedFees[k] = v
	}

	return Config{
		Port:            "8080",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
		LogLevel:        "info",
		CatalogCacheTTL: 6 * time.Hour,
		SearchRPS:       2,
		SearchBurst:     4,
		LookupTimeout:   20 * time.Second,
		RateTimeout:     10 * time.Second,
		SessionTTL:      2 * time.Hour,
		Pricing: Pricing{
			SourceCurrency: "CNY",
			TargetCurrency: "USD",
			DefaultRates: map[string]float64{
				"CNY/USD": 0.1382,
				"USD/CNY": 7.23,
			},
			FallbackRate:       1,
			RateBand:           [2]float64{0.00001, 100000},
			PriceBand:          [2]float64{5000, 20000000},
			PurchaseTaxDivisor: 11.3,
			VATRate:            0.13,
			NewFees:            newFees,
			UsedFees:           usedFees,
		},
	}
}

// Load starts from Defaults, overlays QUOTE_CONFIG_FILE when set, then
// applies environment overrides.
func Load() (Config, error) {
	cfg := Defaults()
	if path := getenv("QUOTE_CONFIG_FILE", ""); path != "" {
		if err := overlayFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	cfg.Port = getenv("PORT", cfg.Port)
	cfg.ReadTimeout = durenv("HTTP_READ_TIMEOUT", cfg.ReadTimeout)
	cfg.WriteTimeout = durenv("HTTP_WRITE_TIMEOUT", cfg.WriteTimeout)
	cfg.IdleTimeout = durenv("HTTP_IDLE_TIMEOUT", cfg.IdleTimeout)
	cfg.ShutdownTimeout = durenv("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	cfg.LogLevel = getenv("LOG_LEVEL", cfg.LogLevel)
	cfg.DatabaseURL = getenv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getenv("REDIS_URL", cfg.RedisURL)
	cfg.CatalogCacheTTL = durenv("CATALOG_CACHE_TTL", cfg.CatalogCacheTTL)
	cfg.SearchURL = getenv("SEARCH_URL", cfg.SearchURL)
	cfg.SearchAPIKey = getenv("SEARCH_API_KEY", cfg.SearchAPIKey)
	cfg.SearchRPS = floatenv("SEARCH_RPS", cfg.SearchRPS)
	cfg.SearchBurst = atoienv("SEARCH_BURST", cfg.SearchBurst)
	cfg.LookupTimeout = durenv("LOOKUP_TIMEOUT", cfg.LookupTimeout)
	cfg.RateTimeout = durenv("RATE_TIMEOUT", cfg.RateTimeout)
	cfg.SessionTTL = durenv("SESSION_TTL", cfg.SessionTTL)
	cfg.Pricing.SourceCurrency = getenv("SOURCE_CURRENCY", cfg.Pricing.SourceCurrency)
	cfg.Pricing.TargetCurrency = getenv("TARGET_CURRENCY", cfg.Pricing.TargetCurrency)
	cfg.Pricing.FallbackRate = floatenv("FALLBACK_RATE", cfg.Pricing.FallbackRate)

	cfg.normalize()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overlayFile(cfg *Config, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

func (cfg *Config) normalize() {
	cfg.Port = strings.TrimPrefix(strings.TrimSpace(cfg.Port), ":")
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.Pricing.SourceCurrency = strings.ToUpper(strings.TrimSpace(cfg.Pricing.SourceCurrency))
	cfg.Pricing.TargetCurrency = strings.ToUpper(strings.TrimSpace(cfg.Pricing.TargetCurrency))
}

func (cfg Config) validate() error {
	if cfg.Port == "" {
		return fmt.Errorf("config: port is required")
	}
	if cfg.LookupTimeout <= 0 || cfg.RateTimeout <= 0 {
		return fmt.Errorf("config: lookup and rate timeouts must be positive")
	}
	p := cfg.Pricing
	if p.SourceCurrency == "" || p.TargetCurrency == "" {
		return fmt.Errorf("config: source and target currency are required")
	}
	if p.PurchaseTaxDivisor <= 0 {
		return fmt.Errorf("config: purchase_tax_divisor must be positive")
	}
	if p.VATRate < 0 {
		return fmt.Errorf("config: vat_rate must not be negative")
	}
	if p.FallbackRate <= 0 {
		return fmt.Errorf("config: fallback_rate must be positive")
	}
	if p.RateBand[0] <= 0 || p.RateBand[0] >= p.RateBand[1] {
		return fmt.Errorf("config: rate_band %v is not an open positive interval", p.RateBand)
	}
	if p.PriceBand[0] <= 0 || p.PriceBand[0] >= p.PriceBand[1] {
		return fmt.Errorf("config: price_band %v is not an open positive interval", p.PriceBand)
	}
	return nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoienv(key string, def int) int {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func floatenv(key string, def float64) float64 {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return def
	}
	return f
}

// durenv accepts a Go duration ("20s") or a bare number of seconds.
func durenv(key string, def time.Duration) time.Duration {
	v := getenv(key, "")
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if sec, err := strconv.Atoi(v); err == nil {
		return time.Duration(sec) * time.Second
	}
	return def
}
