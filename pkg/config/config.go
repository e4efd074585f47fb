package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/matvei-khlestov/vemora-sync/pkg/utils"
)

type Config struct {
	Env      string   `yaml:"env" env:"ENV" env-default:"local"`
	LogLevel string   `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	Postgres PG       `yaml:"postgres"`
	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Catalog  Catalog  `yaml:"catalog"`
	Notifier Notifier `yaml:"notifier"`
}

type PG struct {
	URL string `yaml:"url" env:"DB_URL"`
}

type Redis struct {
	Addr string `yaml:"addr" env:"REDIS_ADDR" env-default:"localhost:6379"`
}

type Kafka struct {
	Brokers         []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092"`
	GroupID         string   `yaml:"group_id" env:"KAFKA_GROUP_ID" env-default:"vemora-sync"`
	ProductsTopic   string   `yaml:"products_topic" env-default:"catalog.products"`
	CategoriesTopic string   `yaml:"categories_topic" env-default:"catalog.categories"`
	BrandsTopic     string   `yaml:"brands_topic" env-default:"catalog.brands"`
}

type Catalog struct {
	APIURL       string        `yaml:"api_url" env:"CATALOG_API_URL" env-default:"http://localhost:8080"`
	FetchTimeout time.Duration `yaml:"fetch_timeout" env-default:"10s"`
}

type Notifier struct {
	Categories []string `yaml:"categories" env-default:"order_updates,promotions"`
}

func MustLoad() *Config {
	configPath := utils.ParseWithFallback("CONFIG_PATH", "./config/local.yaml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exists: %v\n", err)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("error reading config: %v", err)
	}

	return &cfg
}
