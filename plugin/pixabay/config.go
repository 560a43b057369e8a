package pixabay

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sosodev/duration"
)

type Config struct {
	Options        Options
	CacheTTL       time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		Options:        DefaultOptions(),
		CacheTTL:       24 * time.Hour,
		IdleTimeout:    time.Hour,
		RequestTimeout: 30 * time.Second,
	}
}

// ConfigFromEnv reads the PIXABAY_* and SESSION_IDLE_TIMEOUT variables.
// Durations are ISO 8601, e.g. "PT24H".
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("PIXABAY_PER_PAGE")); v != "" {
		perPage, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("PIXABAY_PER_PAGE: %w", err)
		}
		cfg.Options.PerPage = perPage
	}

	if v := strings.TrimSpace(os.Getenv("PIXABAY_LANG")); v != "" {
		cfg.Options.Lang = strings.ToLower(v)
	}

	if v := strings.TrimSpace(os.Getenv("PIXABAY_IMAGE_TYPE")); v != "" {
		cfg.Options.ImageType = v
	}

	if v := strings.TrimSpace(os.Getenv("PIXABAY_ORIENTATION")); v != "" {
		cfg.Options.Orientation = v
	}

	if v := strings.TrimSpace(os.Getenv("PIXABAY_SAFESEARCH")); v != "" {
		safeSearch, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("PIXABAY_SAFESEARCH: %w", err)
		}
		cfg.Options.SafeSearch = safeSearch
	}

	var err error
	if cfg.CacheTTL, err = durationFromEnv("PIXABAY_CACHE_TTL", cfg.CacheTTL); err != nil {
		return Config{}, err
	}
	if cfg.IdleTimeout, err = durationFromEnv("SESSION_IDLE_TIMEOUT", cfg.IdleTimeout); err != nil {
		return Config{}, err
	}
	if cfg.RequestTimeout, err = durationFromEnv("PIXABAY_REQUEST_TIMEOUT", cfg.RequestTimeout); err != nil {
		return Config{}, err
	}

	if err := cfg.Options.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func durationFromEnv(name string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return fallback, nil
	}

	d, err := duration.Parse(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", name, err)
	}

	parsed := d.ToTimeDuration()
	if parsed <= 0 {
		return 0, fmt.Errorf("%s: duration must be positive", name)
	}
	return parsed, nil
}
