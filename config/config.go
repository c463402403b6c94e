package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// Port the API server listens on
	Port string `env:"PORT" envDefault:"5260"`

	// DatabasePath is the sqlite database file location
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/cenometr.db"`

	// Scraping configuration
	Scraping struct {
		// BaseURL of the Otodom portal
		BaseURL string `env:"OTODOM_BASE_URL" envDefault:"https://www.otodom.pl"`

		// PageLimit is the fixed result-page size requested from the source
		PageLimit int `env:"OTODOM_PAGE_LIMIT" envDefault:"72"`

		// FetchTimeout is the outbound request timeout in seconds
		FetchTimeout int `env:"OTODOM_FETCH_TIMEOUT" envDefault:"30"`
	}

	// Scheduler configuration
	Scheduler struct {
		// Enabled turns on the periodic refresh loop
		Enabled bool `env:"SCHEDULER_ENABLED" envDefault:"false"`

		// Interval between refresh rounds in minutes
		Interval int `env:"SCHEDULER_INTERVAL" envDefault:"360"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
