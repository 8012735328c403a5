package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache keeps one parsed copy per configuration type for the process lifetime.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	global = &cache{values: make(map[reflect.Type]any)}

	defaultEnvLoaded sync.Once
)

// LoadEnv loads variables from the given .env files without overriding values
// already present in the process environment. Missing files are ignored.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return errors.Join(ErrLoadingEnvFile, err)
		}
	}
	return nil
}

// Load populates v from environment variables using `env` and `envDefault`
// struct tags. The default .env file is loaded on first use. Each configuration
// type is parsed once; later calls return the cached copy.
//
// Example:
//
//	type Config struct {
//		URI  string `env:"MONGODB_URI,required"`
//		Port string `env:"PORT" envDefault:"5000"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil {
//		// handle
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// The file is optional.
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}

	key := reflect.TypeFor[T]()

	global.mu.Lock()
	defer global.mu.Unlock()

	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	global.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}

// Reset drops every cached configuration. Intended for tests.
func Reset() {
	global.mu.Lock()
	defer global.mu.Unlock()
	global.values = make(map[reflect.Type]any)
}

const (
	Set    = "set"
	NotSet = "not set"
)

// Presence reports, for each variable name, whether it holds a non-empty value.
// Values themselves are never read into the result.
func Presence(names ...string) map[string]string {
	out := make(map[string]string, len(names))
	for _, name := range names {
		if os.Getenv(name) != "" {
			out[name] = Set
		} else {
			out[name] = NotSet
		}
	}
	return out
}
