package parseadminquery

import "time"

type Config struct {
	Timeout        time.Duration
	MaxQueryLength int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:        30 * time.Second,
		MaxQueryLength: 2000,
	}
}
