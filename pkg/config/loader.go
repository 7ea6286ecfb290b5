package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

// Load parses process environment variables into cfg, which must be a
// pointer to a struct carrying `env` tags.
//
//	type Config struct {
//	    Port         int    `env:"REVIEW_HTTP_PORT" envDefault:"8080"`
//	    ReviewsTable string `env:"REVIEWS_TABLE" envDefault:"MovieReviews"`
//	}
func Load(cfg any) error {
	return parse(cfg, env.Options{})
}

// LoadFrom parses cfg from the given variables only, ignoring the process
// environment. Intended for tests and embedded callers.
func LoadFrom(cfg any, vars map[string]string) error {
	return parse(cfg, env.Options{Environment: vars})
}

func parse(cfg any, opts env.Options) error {
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}
