package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config содержит всю конфигурацию приложения
type Config struct {
	Server   ServerConfig
	Exchange ExchangeConfig
	Trading  TradingConfig
	Logging  LoggingConfig
}

// ServerConfig - настройки HTTP сервера
type ServerConfig struct {
	Port            int
	Host            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// ExchangeConfig - подключение к GRVT: окружение и два
// credential-набора (read и trade).
type ExchangeConfig struct {
	Environment string // testnet | prod

	// Read-сессия: маркет-дата, балансы, позиции, история
	APIKey           string
	PrivateKey       string
	TradingAccountID string

	// Trade-сессия: создание/отмена ордеров, риск-параметры
	TradeAPIKey           string
	TradePrivateKey       string
	TradeTradingAccountID string

	// TradeKeyReused = true, когда GRVT_PRIVATE_TRADE_KEY не задан
	// и trade-сессия использует read-ключ. Допустимо, но достойно
	// предупреждения в логе: сегрегация credentials нарушена.
	TradeKeyReused bool

	RateLimit float64 // запросов в секунду на сессию
	RateBurst float64
}

// TradingConfig - торговые параметры шлюза
type TradingConfig struct {
	// CancelTTLMs - срок жизни запросов отмены на стороне биржи, мс
	CancelTTLMs int64

	// WatchSymbols - инструменты, чьи тикеры транслируются
	// подключённым WebSocket клиентам
	WatchSymbols []string
}

// LoggingConfig - настройки логирования
type LoggingConfig struct {
	Level  string
	Format string
}

// Load загружает конфигурацию из переменных окружения.
// Файл .env, если он есть, подхватывается до чтения окружения;
// его отсутствие ошибкой не считается.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Exchange: ExchangeConfig{
			Environment:           getEnv("GRVT_ENV", "testnet"),
			APIKey:                getEnv("GRVT_API_KEY", ""),
			PrivateKey:            getEnv("GRVT_PRIVATE_KEY", ""),
			TradingAccountID:      getEnv("GRVT_TRADING_ACCOUNT_ID", ""),
			TradeAPIKey:           getEnv("GRVT_API_TRADE_KEY", ""),
			TradePrivateKey:       getEnv("GRVT_PRIVATE_TRADE_KEY", ""),
			TradeTradingAccountID: getEnv("GRVT_TRADING_ACCOUNT_TRADE_ID", ""),
			RateLimit:             getEnvAsFloat("EXCHANGE_RATE_LIMIT", 10),
			RateBurst:             getEnvAsFloat("EXCHANGE_RATE_BURST", 20),
		},
		Trading: TradingConfig{
			CancelTTLMs:  int64(getEnvAsInt("ORDER_CANCEL_TTL_MS", 1000)),
			WatchSymbols: getEnvAsList("WATCH_SYMBOLS", nil),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Приватный trade-ключ опционален: при его отсутствии
	// подписываем trade-ключом чтения
	if cfg.Exchange.TradePrivateKey == "" {
		cfg.Exchange.TradePrivateKey = cfg.Exchange.PrivateKey
		cfg.Exchange.TradeKeyReused = true
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate проверяет обязательные параметры и диапазоны
func (c *Config) validate() error {
	switch c.Exchange.Environment {
	case "testnet", "prod":
	default:
		return fmt.Errorf("GRVT_ENV must be testnet or prod, got %q", c.Exchange.Environment)
	}

	// Обе сессии обязаны иметь полный credential-набор:
	// частично сконфигурированный шлюз не стартует
	required := map[string]string{
		"GRVT_API_KEY":                  c.Exchange.APIKey,
		"GRVT_PRIVATE_KEY":              c.Exchange.PrivateKey,
		"GRVT_TRADING_ACCOUNT_ID":       c.Exchange.TradingAccountID,
		"GRVT_API_TRADE_KEY":            c.Exchange.TradeAPIKey,
		"GRVT_TRADING_ACCOUNT_TRADE_ID": c.Exchange.TradeTradingAccountID,
	}
	for name, value := range required {
		if value == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}

	if c.Trading.CancelTTLMs <= 0 {
		return fmt.Errorf("ORDER_CANCEL_TTL_MS must be positive, got %d", c.Trading.CancelTTLMs)
	}

	if c.Exchange.RateLimit <= 0 {
		return fmt.Errorf("EXCHANGE_RATE_LIMIT must be positive, got %v", c.Exchange.RateLimit)
	}
	if c.Exchange.RateBurst < c.Exchange.RateLimit {
		return fmt.Errorf("EXCHANGE_RATE_BURST must be >= EXCHANGE_RATE_LIMIT")
	}

	return nil
}

// Addr возвращает адрес прослушивания HTTP сервера
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Вспомогательные функции для чтения переменных окружения

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
