package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lemonexport/quote-engine/internal/model"
)

var envKeys = []string{
	"QUOTE_CONFIG_FILE", "PORT", "HTTP_READ_TIMEOUT", "HTTP_WRITE_TIMEOUT",
	"HTTP_IDLE_TIMEOUT", "SHUTDOWN_TIMEOUT", "LOG_LEVEL", "DATABASE_URL",
	"REDIS_URL", "CATALOG_CACHE_TTL", "SEARCH_URL", "SEARCH_API_KEY",
	"SEARCH_RPS", "SEARCH_BURST", "LOOKUP_TIMEOUT", "RATE_TIMEOUT",
	"SESSION_TTL", "SOURCE_CURRENCY", "TARGET_CURRENCY", "FALLBACK_RATE",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "8080" {
		t.Fatalf("Port default, got %q", c.Port)
	}
	if c.LookupTimeout != 20*time.Second {
		t.Fatalf("LookupTimeout default, got %v", c.LookupTimeout)
	}
	if c.Pricing.SourceCurrency != "CNY" || c.Pricing.TargetCurrency != "USD" {
		t.Fatalf("default pair, got %s/%s", c.Pricing.SourceCurrency, c.Pricing.TargetCurrency)
	}
	if c.Pricing.DefaultRates["CNY/USD"] != 0.1382 || c.Pricing.DefaultRates["USD/CNY"] != 7.23 {
		t.Fatalf("default rates, got %v", c.Pricing.DefaultRates)
	}
	if c.Pricing.PurchaseTaxDivisor != 11.3 || c.Pricing.VATRate != 0.13 {
		t.Fatalf("tax constants default")
	}
}

func TestFeeDefaultsByCondition(t *testing.T) {
	p := Defaults().Pricing

	nf := p.FeeDefaults(model.ConditionNew)
	uf := p.FeeDefaults(model.ConditionUsed)
	if nf[model.FeeRegistration] != "500" || uf[model.FeeRegistration] != "800" {
		t.Fatalf("registration defaults: new %q used %q", nf[model.FeeRegistration], uf[model.FeeRegistration])
	}
	for _, f := range []model.FeeField{model.FeeCompulsoryInsurance, model.FeeDomesticFreight, model.FeeChannel, model.FeePortMisc, model.FeeCustoms} {
		if nf[f] == "" || nf[f] != uf[f] {
			t.Errorf("%s: new %q used %q", f, nf[f], uf[f])
		}
	}
	if nf[model.FeePortMisc] != "2600" {
		t.Errorf("port misc default, got %q", nf[model.FeePortMisc])
	}
}

func TestFeeDefaultsDropsUnknownFields(t *testing.T) {
	p := Pricing{NewFees: map[string]string{"bogus": "1", string(model.FeeChannel): "10"}}
	got := p.FeeDefaults(model.ConditionNew)
	if len(got) != 1 || got[model.FeeChannel] != "10" {
		t.Fatalf("unexpected defaults %v", got)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("LOOKUP_TIMEOUT", "5s")
	t.Setenv("RATE_TIMEOUT", "3")
	t.Setenv("SEARCH_RPS", "0.5")
	t.Setenv("SEARCH_BURST", "7")
	t.Setenv("TARGET_CURRENCY", " eur ")
	t.Setenv("LOG_LEVEL", "DEBUG")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "9090" {
		t.Fatalf("Port override, got %q", c.Port)
	}
	if c.LookupTimeout != 5*time.Second || c.RateTimeout != 3*time.Second {
		t.Fatalf("timeouts override, got %v %v", c.LookupTimeout, c.RateTimeout)
	}
	if c.SearchRPS != 0.5 || c.SearchBurst != 7 {
		t.Fatalf("search throttle override")
	}
	if c.Pricing.TargetCurrency != "EUR" || c.LogLevel != "debug" {
		t.Fatalf("normalisation, got %q %q", c.Pricing.TargetCurrency, c.LogLevel)
	}
}

func TestLoadIgnoresMalformedEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("SEARCH_BURST", "lots")
	t.Setenv("SESSION_TTL", "soon")
	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.SearchBurst != 4 || c.SessionTTL != 2*time.Hour {
		t.Fatalf("malformed values should fall back to defaults")
	}
}

func TestLoadYAMLOverlay(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "quote.yaml")
	body := `
port: "7000"
lookup_timeout: 8s
pricing:
  target_currency: AED
  default_rates:
    CNY/AED: 0.51
  vat_rate: 0.09
  new_fees:
    channel_fee: "1200"
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("QUOTE_CONFIG_FILE", path)
	t.Setenv("PORT", "7100")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Port != "7100" {
		t.Fatalf("env should win over file, got %q", c.Port)
	}
	if c.LookupTimeout != 8*time.Second {
		t.Fatalf("file lookup_timeout, got %v", c.LookupTimeout)
	}
	if c.Pricing.TargetCurrency != "AED" || c.Pricing.VATRate != 0.09 {
		t.Fatalf("file pricing overlay not applied")
	}
	if c.Pricing.DefaultRates["CNY/AED"] != 0.51 || c.Pricing.DefaultRates["CNY/USD"] != 0.1382 {
		t.Fatalf("rate maps should merge, got %v", c.Pricing.DefaultRates)
	}
	if c.Pricing.NewFees["channel_fee"] != "1200" || c.Pricing.NewFees["port_misc_fee"] != "2600" {
		t.Fatalf("fee maps should merge, got %v", c.Pricing.NewFees)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"zero divisor", "pricing:\n  purchase_tax_divisor: 0\n"},
		{"inverted band", "pricing:\n  price_band: [100, 10]\n"},
		{"no target", "pricing:\n  target_currency: \"\"\n"},
		{"not yaml", "port: [\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			path := filepath.Join(t.TempDir(), "bad.yaml")
			if err := os.WriteFile(path, []byte(tt.body), 0o600); err != nil {
				t.Fatal(err)
			}
			t.Setenv("QUOTE_CONFIG_FILE", path)
			if _, err := Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("QUOTE_CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))
	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing file")
	}
}
