package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	Port          string        `env:"PORT" envDefault:"5000"`
	MongoURI      string        `env:"MONGODB_URI,required"`
	MongoDatabase string        `env:"MONGODB_DATABASE" envDefault:"papertrader"`
	JWTSecret     string        `env:"JWT_SECRET,required"`
	QuoteAPIURL   string        `env:"QUOTE_API_URL,required"`
	QuoteTimeout  time.Duration `env:"QUOTE_TIMEOUT" envDefault:"3s"`
	QuoteCacheTTL time.Duration `env:"QUOTE_CACHE_TTL" envDefault:"15s"`
	LockTimeout   time.Duration `env:"TRADE_LOCK_TIMEOUT" envDefault:"5s"`
	SeedBalance   float64       `env:"SEED_BALANCE" envDefault:"100000"`
	AlertInterval time.Duration `env:"ALERT_INTERVAL" envDefault:"1m"`
	CORSOrigin    string        `env:"CORS_ORIGIN" envDefault:"*"`
}

func Load() (Config, error) {
	var cfg Config
	return cfg, env.Parse(&cfg)
}
