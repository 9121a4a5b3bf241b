package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env        string           `yaml:"env" env-default:"development"` // environment
	HTTPServer HTTPServerConfig `yaml:"http_server"`
	Database   DatabaseConfig   `yaml:"database"`
	Gateway    GatewayConfig    `yaml:"gateway"`
	Migrations MigrationsConfig `yaml:"migrations"`
	Shop       ShopConfig       `yaml:"shop"`
	Session    SessionConfig    `yaml:"session"`
	Kafka      KafkaConfig      `yaml:"kafka"`
}

// HTTPServerConfig структура http сервера
type HTTPServerConfig struct {
	Address     string        `yaml:"address" env-default:"localhost:8080"`
	Timeout     time.Duration `yaml:"timeout" env-default:"4s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// DatabaseConfig структура по работе с БД
type DatabaseConfig struct {
	Host     string `yaml:"host" env-default:"localhost"`
	Port     int    `yaml:"port" env-default:"5432"`
	User     string `yaml:"user" env-required:"true"`
	Password string `yaml:"-" env:"DB_PASSWORD" env-required:"true"`
	Name     string `yaml:"name" env-required:"true"`
}

// GatewayConfig - общий секрет с чат-шлюзом, который подписывает токены (sub = chat id)
type GatewayConfig struct {
	Secret   string `yaml:"-" env:"GATEWAY_SECRET" env-required:"true"`
	TokenTTL int    `yaml:"token_ttl" env-default:"60"`
}

type MigrationsConfig struct {
	Path string `yaml:"path" env-default:"./migrations"`
}

// ShopConfig настройки витрины: админы, пагинация, доставка, валюта
type ShopConfig struct {
	AdminIDs         []int64  `yaml:"admin_ids" env:"ADMIN_IDS" env-separator:","`
	PageSize         int      `yaml:"page_size" env-default:"6"`
	DeliveryOptions  []string `yaml:"delivery_options" env-separator:"," env-default:"courier,pickup"`
	CurrencySymbol   string   `yaml:"currency_symbol" env-default:"₽"`
	CurrencyExponent int32    `yaml:"currency_exponent" env-default:"2"`
}

// SessionConfig хранилище промежуточного состояния оформления заказа.
// TTL = 0 - состояние не истекает.
type SessionConfig struct {
	RedisAddress          string        `yaml:"redis_address" env:"REDIS_ADDRESS"`
	RedisPassword         string        `yaml:"-" env:"REDIS_PASSWORD"`
	RedisDB               int           `yaml:"redis_db" env-default:"0"`
	TTL                   time.Duration `yaml:"ttl" env-default:"0s"`
	AllowInMemoryFallback bool          `yaml:"allow_in_memory_fallback" env-default:"true"`
}

// KafkaConfig - пустой список брокеров отключает публикацию событий
type KafkaConfig struct {
	Brokers    []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	OrderTopic string   `yaml:"order_topic" env-default:"order_events"`
}

// IsAdmin проверяет chat id по списку администраторов
func (c ShopConfig) IsAdmin(chatID int64) bool {
	for _, id := range c.AdminIDs {
		if id == chatID {
			return true
		}
	}
	return false
}

// MustLoad - если не загружаем - паникуем
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: .env file not loaded: %v, using process environment", err)
	}

	configPath := fetchConfigPath()
	if configPath == "" {
		log.Fatal("CONFIG_PATH not exists")
	}
	return MustLoadByPath(configPath)
}

func fetchConfigPath() string {
	var path string

	flag.StringVar(&path, "config", "", "path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}

func MustLoadByPath(configPath string) *Config {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file not found: " + configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("can't read config file %s: %v", configPath, err)
	}

	return &cfg
}
