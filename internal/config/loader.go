package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// envConfigPath overrides the default config file location.
const envConfigPath = "CONFIG_PATH"

// loadEnvFiles loads .env files in priority order:
//  1. ENV_FILE (if set, only this file is loaded)
//  2. .env.local
//  3. .env
//
// godotenv never overrides variables already present in the environment, so
// earlier files win. Missing files are not an error.
func loadEnvFiles() error {
	if envFile := os.Getenv("ENV_FILE"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load env file %s: %w", envFile, err)
		}
		return nil
	}

	for _, name := range []string{".env.local", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}

	return nil
}

// loadFile reads a YAML config file into a T. A missing file yields the
// zero T so the relay can run from the environment alone.
func loadFile[T any](path string) (*T, error) {
	var cfg T

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// loadWithDefaults layers sources in increasing priority: setDefaults fills
// only what the file left empty, and `env` tags override both.
func loadWithDefaults[T any](path string, setDefaults func(*T)) (*T, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, fmt.Errorf("load environment files: %w", err)
	}

	cfg, err := loadFile[T](path)
	if err != nil {
		return nil, err
	}

	// Env first so that defaults depending on other fields (the model
	// follows the provider) see the final values.
	if err = applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if setDefaults != nil {
		setDefaults(cfg)
	}
	return cfg, nil
}

// applyEnvOverrides walks cfg and sets every field tagged `env:"NAME"` whose
// variable is non-empty. All malformed values are reported together.
func applyEnvOverrides(cfg any) error {
	v := reflect.ValueOf(cfg)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}

	var errs []error
	walkEnvFields(v, func(name, raw string, field reflect.Value) {
		if err := setFromEnv(field, raw); err != nil {
			errs = append(errs, fmt.Errorf("env %s=%q: %w", name, raw, err))
		}
	})
	return errors.Join(errs...)
}

func walkEnvFields(v reflect.Value, visit func(name, raw string, field reflect.Value)) {
	if v.Kind() != reflect.Struct {
		return
	}

	t := v.Type()
	for i := range v.NumField() {
		field := v.Field(i)
		if !field.CanSet() {
			continue
		}
		if field.Kind() == reflect.Struct {
			walkEnvFields(field, visit)
			continue
		}

		name, ok := t.Field(i).Tag.Lookup("env")
		if !ok {
			continue
		}
		if raw := os.Getenv(name); raw != "" {
			visit(name, raw, field)
		}
	}
}

var durationType = reflect.TypeFor[time.Duration]()

func setFromEnv(field reflect.Value, raw string) error {
	switch {
	case field.Type() == durationType:
		d, err := time.ParseDuration(raw)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
	case field.Kind() == reflect.String:
		field.SetString(raw)
	case field.CanInt():
		n, err := strconv.ParseInt(raw, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(n)
	case field.CanFloat():
		f, err := strconv.ParseFloat(raw, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(f)
	case field.Kind() == reflect.Bool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return err
		}
		field.SetBool(b)
	case field.Kind() == reflect.Slice && field.Type().Elem().Kind() == reflect.String:
		var items []string
		for item := range strings.SplitSeq(raw, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		field.Set(reflect.ValueOf(items))
	default:
		return fmt.Errorf("unsupported field type %s", field.Type())
	}
	return nil
}

// GetConfigPath returns the config path from CONFIG_PATH or the default.
func GetConfigPath(defaultPath string) string {
	if path := os.Getenv(envConfigPath); path != "" {
		return path
	}
	return defaultPath
}
