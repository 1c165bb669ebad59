// Package config loads runtime settings from YAML, the environment and command-line flags.
package config

import (
	"flag"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"
)

const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds everything the tracker needs to run.
type Config struct {
	QuoteAsset       string        `yaml:"quote_asset" validate:"required,oneof=USDT BUSD FDUSD TUSD USDC BTC BNB ETH TRY EUR"`
	Schedule         string        `yaml:"schedule" validate:"required,cron"`
	TradeLimit       int           `yaml:"trade_limit" validate:"min=1,max=1000"`
	StrategyStore    string        `yaml:"strategy_store" validate:"oneof=json sqlite"`
	StrategiesPath   string        `yaml:"strategies_path" validate:"required"`
	SnapshotDir      string        `yaml:"snapshot_dir" validate:"required"`
	WebAddr          string        `yaml:"web_addr"`
	LogLevel         string        `yaml:"log_level" validate:"oneof=debug info warn error"`
	FetchConcurrency int           `yaml:"fetch_concurrency" validate:"min=1,max=32"`
	HTTPTimeout      time.Duration `yaml:"http_timeout" validate:"min=1s"`

	Secrets Secrets `yaml:"-"`
}

// Secrets credentials read from the environment only.
type Secrets struct {
	BinanceAPIKey    string `env:"BINANCE_API_KEY,required"`
	BinanceAPISecret string `env:"BINANCE_API_SECRET,required"`
	TelegramBotToken string `env:"TELEGRAM_BOT_TOKEN"`
	TelegramChatID   string `env:"TELEGRAM_CHAT_ID"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		QuoteAsset:       "USDT",
		Schedule:         "@every 5m",
		TradeLimit:       1000,
		StrategyStore:    StoreJSON,
		StrategiesPath:   "strategies.json",
		SnapshotDir:      "./wal/portfolio",
		WebAddr:          ":8080",
		LogLevel:         "info",
		FetchConcurrency: 4,
		HTTPTimeout:      15 * time.Second,
	}
}

// Load merges the YAML file at path over the defaults, reads secrets from the
// environment (after loading envFile when it exists) and validates the result.
func Load(path, envFile string) (Config, error) {
	cfg := Default()

	if path != "" {
		payload, err := os.ReadFile(path)
		if err != nil {
			return Config{}, errors.Wrap(err, "read config file")
		}
		if err := yaml.Unmarshal(payload, &cfg); err != nil {
			return Config{}, errors.Wrap(err, "parse config file")
		}
	}
	cfg.QuoteAsset = strings.ToUpper(strings.TrimSpace(cfg.QuoteAsset))

	if envFile != "" {
		// variables already set in the process win over the file
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, errors.Wrap(err, "load env file")
		}
	}
	if err := env.Parse(&cfg.Secrets); err != nil {
		return Config{}, errors.Wrap(err, "read secrets from environment")
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and the cron schedule.
func (c Config) Validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.RegisterValidation("cron", validateCron); err != nil {
		return errors.Wrap(err, "register cron validation")
	}
	return errors.Wrap(v.Struct(c), "invalid config")
}

func validateCron(fl validator.FieldLevel) bool {
	_, err := cron.ParseStandard(fl.Field().String())
	return err == nil
}

// Options command-line flags.
type Options struct {
	ConfigPath   string
	EnvFile      string
	Once         bool
	EditStrategy bool
}

// ParseFlags parses args (without the program name).
func ParseFlags(args []string) (Options, error) {
	var opts Options

	fs := flag.NewFlagSet("martifolio", flag.ContinueOnError)
	fs.StringVar(&opts.ConfigPath, "config", "", "path to yaml config")
	fs.StringVar(&opts.EnvFile, "env-file", ".env", "dotenv file with credentials")
	fs.BoolVar(&opts.Once, "once", false, "run a single cycle, print the report and exit")
	fs.BoolVar(&opts.EditStrategy, "edit-strategy", false, "edit strategy thresholds interactively")

	if err := fs.Parse(args); err != nil {
		return Options{}, err
	}
	return opts, nil
}
