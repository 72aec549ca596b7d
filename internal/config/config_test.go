package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "ADDRESSING_MODE")
	unsetEnvWithCleanup(t, "INITIAL_GRANT_AMOUNT")
	unsetEnvWithCleanup(t, "MAX_TRANSFER_RETRIES")
	unsetEnvWithCleanup(t, "CURRENCY_SCALE")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.AddressingMode != AddressingModeAccountNumber {
		t.Fatalf("expected default addressing mode account_number, got %q", cfg.AddressingMode)
	}
	if cfg.InitialGrantAmount.String() != "10000" {
		t.Fatalf("expected default initial grant 10000, got %s", cfg.InitialGrantAmount)
	}
	if cfg.MaxTransferRetries != 3 {
		t.Fatalf("expected default max transfer retries 3, got %d", cfg.MaxTransferRetries)
	}
	if cfg.CurrencyScale != 2 {
		t.Fatalf("expected default currency scale 2, got %d", cfg.CurrencyScale)
	}
}

func TestLoadConfig_PhoneNumberAddressingMode(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "ADDRESSING_MODE", "PHONE_NUMBER")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.AddressingMode != AddressingModePhoneNumber {
		t.Fatalf("expected phone_number addressing mode, got %q", cfg.AddressingMode)
	}
}

func TestLoadConfig_UnknownAddressingModeFallsBack(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "ADDRESSING_MODE", "email")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.AddressingMode != AddressingModeAccountNumber {
		t.Fatalf("expected fallback to account_number, got %q", cfg.AddressingMode)
	}
}

func TestLoadConfig_InvalidInitialGrantUsesDefault(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	setEnvWithCleanup(t, "INITIAL_GRANT_AMOUNT", "ten thousand")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.InitialGrantAmount.String() != "10000" {
		t.Fatalf("expected default initial grant 10000 for invalid value, got %s", cfg.InitialGrantAmount)
	}
}

func TestLoadConfig_WebhookAPIKeyAlias(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	unsetEnvWithCleanup(t, "WEBHOOK_API_KEY")
	setEnvWithCleanup(t, "LEDGER_SERVICE_WEBHOOK_API_KEY", "alias-only-key")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.WebhookAPIKey != "alias-only-key" {
		t.Fatalf("expected WebhookAPIKey from alias env var, got %q", cfg.WebhookAPIKey)
	}
}

func setEnvWithCleanup(t *testing.T, key string, value string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Setenv(key, value); err != nil {
		t.Fatalf("failed to set env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}

func unsetEnvWithCleanup(t *testing.T, key string) {
	t.Helper()
	prev, hadPrev := os.LookupEnv(key)
	if err := os.Unsetenv(key); err != nil {
		t.Fatalf("failed to unset env %s: %v", key, err)
	}
	t.Cleanup(func() {
		if hadPrev {
			_ = os.Setenv(key, prev)
			return
		}
		_ = os.Unsetenv(key)
	})
}
