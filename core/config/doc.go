// Package config fills tagged structs from environment variables.
//
// Fields use caarlos0/env tags. A .env file in the working directory, when
// present, is loaded once before the first parse:
//
//	type Settings struct {
//		APIURL  string        `env:"STOVE_API_URL" envDefault:"https://api.onstove.com"`
//		Timeout time.Duration `env:"STOVE_HTTP_TIMEOUT" envDefault:"30s"`
//	}
//
//	var s Settings
//	if err := config.Load(&s); err != nil {
//		return err
//	}
//
// Load caches the result per type, so later calls for the same struct type
// return the first value even if the environment changed. Use Parse with an
// explicit map when the process environment must not be consulted, for
// example when building defaults or in tests:
//
//	defaults, err := config.Parse[Settings](map[string]string{})
//
// Parse failures wrap ErrParse.
package config
