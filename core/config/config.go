package config

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	dotenvOnce sync.Once
	cache      sync.Map // reflect.Type -> any
	loadMu     sync.Mutex
)

// Load fills dst from the environment. The first successful load of each
// type is cached and copied into later calls.
func Load[T any](dst *T) error {
	typ := reflect.TypeFor[T]()
	if cached, ok := cache.Load(typ); ok {
		*dst = cached.(T)
		return nil
	}

	loadMu.Lock()
	defer loadMu.Unlock()

	if cached, ok := cache.Load(typ); ok {
		*dst = cached.(T)
		return nil
	}

	dotenvOnce.Do(func() {
		// A missing .env file is normal outside development.
		_ = godotenv.Load()
	})

	var cfg T
	if err := env.Parse(&cfg); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}

	cache.Store(typ, cfg)
	*dst = cfg
	return nil
}

// MustLoad is Load that panics on failure. Intended for program startup.
func MustLoad[T any](dst *T) {
	if err := Load(dst); err != nil {
		panic(err)
	}
}

// Parse reads a T from the given variables only, bypassing the process
// environment, .env files and the cache.
func Parse[T any](environ map[string]string) (T, error) {
	var cfg T
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return cfg, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return cfg, nil
}
