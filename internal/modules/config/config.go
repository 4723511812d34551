package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v2"

	"signal_bot/internal/models"
)

const (
	configFilePathENV     = "CONFIG_FILE"
	defaultConfigFilePath = "configs/values_local.yaml"
)

// Config — вся конфигурация бота. Собирается один раз при старте и дальше только читается.
type Config struct {
	Telegram struct {
		Token     string `yaml:"token" validate:"required"`
		ChannelID string `yaml:"channel_id"`
	} `yaml:"telegram"`

	DB string `yaml:"db_dsn"`

	Service struct {
		Port     int    `yaml:"port" validate:"gt=0,lte=65535"`
		LogLevel string `yaml:"log_level" validate:"omitempty,oneof=debug info warn warning error"`
	} `yaml:"service"`

	Binance struct {
		APIBase    string  `yaml:"api_base" validate:"required,url"`
		SpotBase   string  `yaml:"spot_base" validate:"required,url"`
		KlineLimit int     `yaml:"kline_limit" validate:"gte=100,lte=1500"`
		Workers    int     `yaml:"workers" validate:"gt=0"`
		RPS        float64 `yaml:"rps" validate:"gt=0"`
	} `yaml:"binance"`

	Scanner struct {
		TopSymbols  int      `yaml:"top_symbols" validate:"gt=0"`
		Timeframes  []string `yaml:"timeframes" validate:"min=1,dive,required,oneof=1m 3m 5m 15m 30m 1h 2h 4h 6h 8h 12h 1d 3d 1w 1M"`
		MinScore    int      `yaml:"min_score" validate:"gte=0"`
		IntervalMin int      `yaml:"interval_min" validate:"gt=0"`
		IntervalMax int      `yaml:"interval_max" validate:"gtefield=IntervalMin"`
	} `yaml:"scanner"`

	Risk struct {
		BudgetUSDT float64 `yaml:"budget_usdt" validate:"gt=0"`
		ATRSLMult  float64 `yaml:"atr_sl_mult" validate:"gt=0"`
		ATRTPMult  float64 `yaml:"atr_tp_mult" validate:"gt=0"`
	} `yaml:"risk"`

	Tracing struct {
		Enabled    bool   `yaml:"enabled"`
		JaegerHost string `yaml:"jaeger_host"`
		JaegerPort int    `yaml:"jaeger_port"`
	} `yaml:"tracing"`
}

// defaults повторяют значения исходного бота.
func defaults() Config {
	var c Config
	c.Service.Port = 8080
	c.Service.LogLevel = "info"

	c.Binance.APIBase = "https://fapi.binance.com"
	c.Binance.SpotBase = "https://api.binance.com"
	c.Binance.KlineLimit = 300
	c.Binance.Workers = 8
	c.Binance.RPS = 10

	c.Scanner.TopSymbols = 40
	c.Scanner.Timeframes = []string{"5m", "15m", "30m"}
	c.Scanner.MinScore = 1
	c.Scanner.IntervalMin = 30
	c.Scanner.IntervalMax = 60

	c.Risk.BudgetUSDT = 100
	c.Risk.ATRSLMult = 1.5
	c.Risk.ATRTPMult = 2.0

	c.Tracing.JaegerHost = "localhost"
	c.Tracing.JaegerPort = 6831
	return c
}

// NewConfig — провайдер для fx: .env, затем YAML из CONFIG_FILE, затем переменные окружения.
func NewConfig() (*Config, error) {
	_ = godotenv.Load()

	path := os.Getenv(configFilePathENV)
	required := path != ""
	if path == "" {
		path = defaultConfigFilePath
	}
	return Load(path, required)
}

// Load собирает конфиг: дефолты, YAML (если есть), env. Валидирует результат.
// required=false — отсутствующий файл не ошибка.
func Load(path string, required bool) (*Config, error) {
	return load(path, required)
}

// LoadOffline — то же, что Load, но без токена бота: для разовых прогонов из консоли.
func LoadOffline(path string, required bool) (*Config, error) {
	return load(path, required, "Telegram.Token")
}

func load(path string, required bool, except ...string) (*Config, error) {
	cfg := defaults()

	if err := readYAML(path, required, &cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.Scanner.Timeframes = NormTimeframes(cfg.Scanner.Timeframes)

	var err error
	if v := validator.New(); len(except) > 0 {
		err = v.StructExcept(&cfg, except...)
	} else {
		err = v.Struct(&cfg)
	}
	if err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	return &cfg, nil
}

func readYAML(path string, required bool, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return errors.Wrapf(err, "open config file %s", path)
	}
	defer func() {
		_ = file.Close()
	}()

	if err := yaml.NewDecoder(file).Decode(cfg); err != nil {
		return errors.Wrapf(err, "decode config file %s", path)
	}
	return nil
}

// applyEnv перекрывает поля переменными окружения с именами исходного бота.
func applyEnv(cfg *Config) error {
	v := viper.New()
	v.AutomaticEnv()

	str := func(key string, dst *string) {
		if v.IsSet(key) {
			*dst = strings.TrimSpace(v.GetString(key))
		}
	}
	var bad []string
	num := func(key string, dst *int) {
		if !v.IsSet(key) {
			return
		}
		n, err := parseInt(v.GetString(key))
		if err != nil {
			bad = append(bad, key)
			return
		}
		*dst = n
	}
	flt := func(key string, dst *float64) {
		if !v.IsSet(key) {
			return
		}
		f, err := parseFloat(v.GetString(key))
		if err != nil {
			bad = append(bad, key)
			return
		}
		*dst = f
	}

	str("TELEGRAM_BOT_TOKEN", &cfg.Telegram.Token)
	str("CHANNEL_ID", &cfg.Telegram.ChannelID)
	str("DATABASE_DSN", &cfg.DB)
	num("PORT", &cfg.Service.Port)
	str("LOG_LEVEL", &cfg.Service.LogLevel)

	str("BINANCE_API_BASE", &cfg.Binance.APIBase)
	str("BINANCE_SPOT_BASE", &cfg.Binance.SpotBase)
	num("KLINE_LIMIT", &cfg.Binance.KlineLimit)
	num("FETCH_WORKERS", &cfg.Binance.Workers)
	flt("FETCH_RPS", &cfg.Binance.RPS)

	num("TOP_SYMBOLS", &cfg.Scanner.TopSymbols)
	if v.IsSet("TIMEFRAMES") {
		cfg.Scanner.Timeframes = splitList(v.GetString("TIMEFRAMES"))
	}
	num("MIN_SCORE", &cfg.Scanner.MinScore)
	num("SIGNAL_INTERVAL_MIN", &cfg.Scanner.IntervalMin)
	num("SIGNAL_INTERVAL_MAX", &cfg.Scanner.IntervalMax)

	flt("BUDGET_USDT", &cfg.Risk.BudgetUSDT)
	flt("ATR_SL_MULT", &cfg.Risk.ATRSLMult)
	flt("ATR_TP_MULT", &cfg.Risk.ATRTPMult)

	if v.IsSet("TRACING_ENABLED") {
		cfg.Tracing.Enabled = v.GetBool("TRACING_ENABLED")
	}
	str("JAEGER_HOST", &cfg.Tracing.JaegerHost)
	num("JAEGER_PORT", &cfg.Tracing.JaegerPort)

	if len(bad) > 0 {
		return errors.Errorf("malformed env values: %s", strings.Join(bad, ", "))
	}
	return nil
}

// Budget — параметры риска для движка оценки.
func (c *Config) Budget() models.Budget {
	return models.Budget{
		TotalUSDT:     c.Risk.BudgetUSDT,
		ATRStopMult:   c.Risk.ATRSLMult,
		ATRTargetMult: c.Risk.ATRTPMult,
		MinScore:      c.Scanner.MinScore,
	}
}

// IntervalBounds — границы паузы между циклами.
func (c *Config) IntervalBounds() (time.Duration, time.Duration) {
	return time.Duration(c.Scanner.IntervalMin) * time.Second,
		time.Duration(c.Scanner.IntervalMax) * time.Second
}

// Summary — действующие настройки для команды /config. Токен и DSN не выводим.
func (c *Config) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "BINANCE_API_BASE=%s\n", c.Binance.APIBase)
	fmt.Fprintf(&b, "TOP_SYMBOLS=%d\n", c.Scanner.TopSymbols)
	fmt.Fprintf(&b, "TIMEFRAMES=%s\n", strings.Join(c.Scanner.Timeframes, ","))
	fmt.Fprintf(&b, "MIN_SCORE=%d\n", c.Scanner.MinScore)
	fmt.Fprintf(&b, "SIGNAL_INTERVAL=%d..%d s\n", c.Scanner.IntervalMin, c.Scanner.IntervalMax)
	fmt.Fprintf(&b, "BUDGET_USDT=%g\n", c.Risk.BudgetUSDT)
	fmt.Fprintf(&b, "ATR_SL_MULT=%g ATR_TP_MULT=%g\n", c.Risk.ATRSLMult, c.Risk.ATRTPMult)
	if c.Telegram.ChannelID != "" {
		fmt.Fprintf(&b, "CHANNEL_ID=%s\n", c.Telegram.ChannelID)
	}
	return strings.TrimRight(b.String(), "\n")
}
