/**
 * @description
 * This package handles the configuration management for the service. It uses
 * the Viper library to read configuration from environment variables,
 * providing a centralized and straightforward way to manage application
 * settings. Everything the ledger engine needs is enumerated here explicitly
 * at startup; nothing reads the environment after boot.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 * - github.com/shopspring/decimal: Exact parsing of the initial grant amount.
 */

package config

import (
	"log"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Addressing modes for resolving the recipient of a TRANSFER command. The two
// historical conventions in this domain resolve recipients by different keys;
// each deployment must pick one and apply it consistently.
const (
	AddressingModeAccountNumber = "account_number"
	AddressingModePhoneNumber   = "phone_number"
)

const (
	defaultInitialGrant       = "10000.00"
	defaultMaxTransferRetries = 3
	defaultCurrencyScale      = 2
	defaultSMSRateLimit       = 30
)

// Config holds all the configuration variables for the ledger-service.
// These values are loaded from environment variables.
type Config struct {
	ServerPort                   string `mapstructure:"SERVER_PORT"`
	DatabaseURL                  string `mapstructure:"DATABASE_URL"`
	RabbitMQURL                  string `mapstructure:"RABBITMQ_URL"`
	NotificationEventExchange    string `mapstructure:"NOTIFICATION_EVENT_EXCHANGE"`
	NotificationRoutingKey       string `mapstructure:"NOTIFICATION_ROUTING_KEY"`
	NINAPIBaseURL                string `mapstructure:"NIN_API_BASE_URL"`
	NINAPIKey                    string `mapstructure:"NIN_API_KEY"`
	WebhookAPIKey                string `mapstructure:"WEBHOOK_API_KEY"`
	RedisURL                     string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix         string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	InitialGrantAmountRaw        string `mapstructure:"INITIAL_GRANT_AMOUNT"`
	AddressingMode               string `mapstructure:"ADDRESSING_MODE"`
	MaxTransferRetries           int    `mapstructure:"MAX_TRANSFER_RETRIES"`
	CurrencyScale                int32  `mapstructure:"CURRENCY_SCALE"`
	SMSCommandRateLimitPerMinute int    `mapstructure:"SMS_COMMAND_RATE_LIMIT_PER_MINUTE"`

	// InitialGrantAmount is the parsed, validated form of InitialGrantAmountRaw.
	InitialGrantAmount decimal.Decimal `mapstructure:"-"`
}

// LoadConfig reads configuration from environment variables from the given path.
// It uses Viper to automatically bind environment variables to the Config struct.
func LoadConfig(path string) (config Config, err error) {
	// Tell viper the path to look for the optional .env file.
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	// Enable automatic binding of environment variables.
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("NOTIFICATION_EVENT_EXCHANGE", "ledger.events")
	viper.SetDefault("NOTIFICATION_ROUTING_KEY", "sms.outbound")
	viper.SetDefault("NIN_API_BASE_URL", "https://buzz-nin-api.vercel.app")
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", "buzzbank:rate_limit")
	viper.SetDefault("INITIAL_GRANT_AMOUNT", defaultInitialGrant)
	viper.SetDefault("ADDRESSING_MODE", AddressingModeAccountNumber)
	viper.SetDefault("MAX_TRANSFER_RETRIES", defaultMaxTransferRetries)
	viper.SetDefault("CURRENCY_SCALE", defaultCurrencyScale)
	viper.SetDefault("SMS_COMMAND_RATE_LIMIT_PER_MINUTE", defaultSMSRateLimit)

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("NOTIFICATION_EVENT_EXCHANGE")
	_ = viper.BindEnv("NOTIFICATION_ROUTING_KEY")
	_ = viper.BindEnv("NIN_API_BASE_URL")
	_ = viper.BindEnv("NIN_API_KEY")
	_ = viper.BindEnv("WEBHOOK_API_KEY", "WEBHOOK_API_KEY", "LEDGER_SERVICE_WEBHOOK_API_KEY")
	_ = viper.BindEnv("REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("INITIAL_GRANT_AMOUNT")
	_ = viper.BindEnv("ADDRESSING_MODE")
	_ = viper.BindEnv("MAX_TRANSFER_RETRIES")
	_ = viper.BindEnv("CURRENCY_SCALE")
	_ = viper.BindEnv("SMS_COMMAND_RATE_LIMIT_PER_MINUTE")

	// Attempt to read the config file. It's okay if it doesn't exist.
	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	// Unmarshal the configuration into the Config struct.
	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	if strings.TrimSpace(config.WebhookAPIKey) == "" {
		config.WebhookAPIKey = strings.TrimSpace(os.Getenv("LEDGER_SERVICE_WEBHOOK_API_KEY"))
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = "buzzbank:rate_limit"
	}

	config.AddressingMode = strings.TrimSpace(strings.ToLower(config.AddressingMode))
	switch config.AddressingMode {
	case AddressingModeAccountNumber, AddressingModePhoneNumber:
	default:
		log.Printf("level=warn component=config msg=\"unknown addressing mode; falling back to account_number\" mode=%q", config.AddressingMode)
		config.AddressingMode = AddressingModeAccountNumber
	}

	if config.MaxTransferRetries <= 0 {
		config.MaxTransferRetries = defaultMaxTransferRetries
	}
	if config.CurrencyScale < 0 {
		log.Printf("level=warn component=config msg=\"negative currency scale configured; coercing to default\" scale=%d", config.CurrencyScale)
		config.CurrencyScale = defaultCurrencyScale
	}
	if config.SMSCommandRateLimitPerMinute < 0 {
		config.SMSCommandRateLimitPerMinute = 0
	}

	grantRaw := strings.TrimSpace(config.InitialGrantAmountRaw)
	if grantRaw == "" {
		grantRaw = defaultInitialGrant
	}
	grant, parseErr := decimal.NewFromString(grantRaw)
	if parseErr != nil || grant.IsNegative() {
		log.Printf("level=warn component=config msg=\"invalid INITIAL_GRANT_AMOUNT; using default\" value=%q err=%v", grantRaw, parseErr)
		grant, _ = decimal.NewFromString(defaultInitialGrant)
	}
	config.InitialGrantAmount = grant.Round(config.CurrencyScale)

	return
}
