package stove

import (
	"fmt"
	"strings"
	"time"

	"github.com/stovelib/stove/core/config"
	redisdb "github.com/stovelib/stove/integration/database/redis"
	"github.com/stovelib/stove/integration/database/sqlite"
)

// Session backends selectable with STOVE_SESSION_BACKEND.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Config holds every tunable of a Client. Zero values of optional fields fall
// back to the package defaults.
type Config struct {
	APIURL      string `env:"STOVE_API_URL" envDefault:"https://api.onstove.com"`
	StoreURL    string `env:"STOVE_STORE_URL" envDefault:"https://store.onstove.com"`
	AccountsURL string `env:"STOVE_ACCOUNTS_URL" envDefault:"https://accounts.onstove.com"`
	WWWURL      string `env:"STOVE_WWW_URL" envDefault:"https://www.onstove.com"`
	ImageURL    string `env:"STOVE_IMAGE_URL" envDefault:"https://image.onstove.com"`

	Locale     string `env:"STOVE_LOCALE" envDefault:"en-US"`
	Timezone   string `env:"STOVE_TIMEZONE" envDefault:"America/Los_Angeles"`
	DeviceType string `env:"STOVE_DEVICE_TYPE" envDefault:"P01"`
	UserAgent  string `env:"STOVE_USER_AGENT"`

	RateLimit    int           `env:"STOVE_RATE_LIMIT" envDefault:"10"`
	RateInterval time.Duration `env:"STOVE_RATE_INTERVAL" envDefault:"1s"`
	HTTPTimeout  time.Duration `env:"STOVE_HTTP_TIMEOUT" envDefault:"30s"`
	PageSize     int           `env:"STOVE_PAGE_SIZE" envDefault:"30"`

	AllowAdultContent bool `env:"STOVE_ALLOW_ADULT_CONTENT" envDefault:"false"`

	// AppSecret seeds the session encryption key together with the OS user.
	AppSecret      string `env:"STOVE_APP_SECRET" envDefault:"stove-library"`
	SessionBackend string `env:"STOVE_SESSION_BACKEND" envDefault:"memory"`
	SessionFile    string `env:"STOVE_SESSION_FILE" envDefault:"stove-session.json"`
	RedisPrefix    string `env:"STOVE_REDIS_PREFIX" envDefault:"stove:session:"`

	Redis  redisdb.Config
	SQLite sqlite.Config
}

// DefaultConfig returns the production defaults without reading the
// environment.
func DefaultConfig() Config {
	cfg, err := config.Parse[Config](map[string]string{})
	if err != nil {
		panic(err)
	}
	return cfg
}

// LoadConfig reads Config from the environment and an optional .env file.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

// Validate reports configuration a Client cannot start with.
func (c Config) Validate() error {
	if c.RateLimit <= 0 {
		return fmt.Errorf("%w: rate limit must be positive, got %d", ErrInvalidConfig, c.RateLimit)
	}
	if c.RateInterval <= 0 {
		return fmt.Errorf("%w: rate interval must be positive, got %s", ErrInvalidConfig, c.RateInterval)
	}
	if c.AppSecret == "" {
		return fmt.Errorf("%w: app secret is empty", ErrInvalidConfig)
	}

	switch strings.ToLower(c.SessionBackend) {
	case "", BackendMemory, BackendRedis, BackendSQLite:
	case BackendFile:
		if c.SessionFile == "" {
			return fmt.Errorf("%w: session file path is empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.SessionBackend)
	}
	return nil
}
