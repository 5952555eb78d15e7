// Package config предоставляет структуры и функции для парсинга и загрузки конфига
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// Config общая структура для хранения настроек
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	GRPCAuthAddress         string `yaml:"grpc_auth_address" env:"GRPC_AUTH_ADDRESS"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	MigrationsPath          string `yaml:"migrations_path" env:"MIGRATIONS_PATH" env-default:"migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	RabbitMQ                RabbitMQ  `yaml:"rabbitmq"`
	SMTP                    SMTP      `yaml:"smtp"`
	OpenAI                  OpenAI    `yaml:"openai"`
	Payment                 Payment   `yaml:"payment"`
	Scheduler               Scheduler `yaml:"scheduler"`
	CORS                    CORS      `yaml:"cors"`
	RateLimit               RateLimit `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env:"HTTP_ADDRESS" env-default:":5000"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user" env:"REDIS_USER"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"3s"`
	CacheTTL     time.Duration `yaml:"cache_ttl" env-default:"10m"`
}

// JWTToken структура для работы с jwt-токеном
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// RabbitMQ параметры подключения к брокеру сообщений
type RabbitMQ struct {
	URL         string        `yaml:"url" env:"RABBITMQ_URL"`
	Exchange    string        `yaml:"exchange" env-default:"notifications"`
	Queue       string        `yaml:"queue" env-default:"subscription_events"`
	MaxRetries  int           `yaml:"max_retries" env-default:"5"`
	RetryDelay  time.Duration `yaml:"retry_delay" env-default:"2s"`
	Concurrency int           `yaml:"concurrency" env-default:"4"`
}

// SMTP параметры почтового сервера
type SMTP struct {
	Host     string `yaml:"host" env:"SMTP_HOST"`
	Port     int    `yaml:"port" env:"SMTP_PORT" env-default:"587"`
	User     string `yaml:"user" env:"SMTP_USER"`
	Password string `yaml:"password" env:"SMTP_PASSWORD"`
	From     string `yaml:"from" env:"SMTP_FROM"`
}

// OpenAI параметры генератора конспектов и карточек
type OpenAI struct {
	APIKey  string `yaml:"api_key" env:"OPENAI_API_KEY"`
	Model   string `yaml:"model" env:"OPENAI_MODEL" env-default:"gpt-4o-mini"`
	BaseURL string `yaml:"base_url" env:"OPENAI_BASE_URL"`
}

// Payment параметры платёжного провайдера; provider = mock | http
type Payment struct {
	Provider  string `yaml:"provider" env:"PAYMENT_PROVIDER" env-default:"mock"`
	APIURL    string `yaml:"api_url" env:"PAYMENT_API_URL"`
	ShopID    string `yaml:"shop_id" env:"PAYMENT_SHOP_ID"`
	SecretKey string `yaml:"secret_key" env:"PAYMENT_SECRET_KEY"`
}

// Scheduler параметры фоновой проверки подписок
type Scheduler struct {
	Interval       time.Duration `yaml:"interval" env-default:"1h"`
	ReminderWindow time.Duration `yaml:"reminder_window" env-default:"72h"`
}

// CORS разрешённые источники браузерного клиента
type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:3000"`
}

// RateLimit параметры ограничения частоты запросов к публичным маршрутам
type RateLimit struct {
	RPS   float64 `yaml:"rps" env-default:"5"`
	Burst int     `yaml:"burst" env-default:"10"`
}

// Load читает конфиг из YAML-файла path и переменных окружения.
func Load(path string) (*Config, error) {
	const op = "config.Load"
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s: file %s does not exist", op, path)
	}
	var cfg Config
	if err := cleanenv.ReadConfig(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &cfg, nil
}

// MustLoad загружает .env (если есть) и конфиг по пути из CONFIG_PATH,
// завершая процесс при ошибке.
func MustLoad() *Config {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	cfg, err := Load(configPath)
	if err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	return cfg
}

// String возвращает конфиг без секретов для вывода в лог.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Env: %s\n"+
			"HTTPServer: %s (timeout %s, idle %s)\n"+
			"Redis: %s db=%d\n"+
			"GRPCAuthAddress: %s\n"+
			"RabbitMQ exchange: %s\n"+
			"Payment provider: %s\n"+
			"Scheduler interval: %s\n"+
			"TokenTTL: %s\n",
		c.Env,
		c.AddressHTTP, c.TimeoutHTTP, c.IdleTimeout,
		c.AddressRedis, c.DB,
		c.GRPCAuthAddress,
		c.RabbitMQ.Exchange,
		c.Payment.Provider,
		c.Scheduler.Interval,
		c.TokenTTL,
	)
}
