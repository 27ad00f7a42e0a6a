package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/inject/logger"
)

// FileSystem abstracts file lookups so resolution can be tested.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

// ResolvedFiles contains the resolved config and env file paths.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file path (optional)
	EnvFile    string // explicit .env file path (optional)
	EnvPrefix  string // only variables starting with PREFIX_ are bound
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix restricts environment binding to PREFIX_* variables.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = strings.ToUpper(strings.TrimSuffix(prefix, "_")) }
}

// ResolveFiles returns explicit paths if provided, otherwise the first
// existing candidate from the standard locations.
func ResolveFiles(serviceName string, lc LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{ConfigFile: lc.ConfigFile, EnvFile: lc.EnvFile}

	if resolved.ConfigFile == "" {
		resolved.ConfigFile = firstExisting(lc.FileSystem,
			fmt.Sprintf("./config/%s.yml", serviceName),
			"./config/config.yml",
			fmt.Sprintf("./%s.yml", serviceName),
			"./config.yml",
		)
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = firstExisting(lc.FileSystem,
			fmt.Sprintf("./.env.%s", serviceName),
			"./.env",
		)
	}
	return resolved
}

func firstExisting(fs FileSystem, paths ...string) string {
	for _, path := range paths {
		if fs.Exists(path) {
			return path
		}
	}
	return ""
}

// LoadConfig loads configuration for a service into cfg, which must be a
// pointer to a struct with mapstructure tags.
func LoadConfig(serviceName string, cfg interface{}, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}

	files := ResolveFiles(serviceName, lc)
	log := logger.Get("config")
	v := viper.New()

	if files.ConfigFile != "" {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", files.ConfigFile, err)
		}
		log.Debug("Config file loaded", logger.Fields("file", files.ConfigFile))
	}

	// .env never overrides variables already present in the environment.
	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			log.Warn("Failed to load .env file", logger.ErrorFields("load_env", err))
		} else {
			log.Debug("Env file loaded", logger.Fields("file", files.EnvFile))
		}
	}

	bindEnvVars(v, lc.EnvPrefix, declaredKeys(cfg))

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("failed to unmarshal config for service %s: %w", serviceName, err)
	}
	return nil
}

// bindEnvVars copies PREFIX_* environment variables into v under every
// nested key variant they may denote. When declared is non-nil only variants
// naming a declared key are set, so unrelated variables such as NAME_SUFFIX
// cannot turn a scalar key into a map.
func bindEnvVars(v *viper.Viper, prefix string, declared *keySet) {
	for _, env := range os.Environ() {
		key, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			rest, found := strings.CutPrefix(key, prefix+"_")
			if !found {
				continue
			}
			key = rest
		}
		for _, variant := range envKeyVariants(key) {
			if declared != nil && !declared.allows(variant) {
				continue
			}
			v.Set(variant, value)
		}
	}
}

// keySet holds the dotted keys a config struct can decode. Map-typed fields
// accept any key below them.
type keySet struct {
	leaves map[string]bool
	open   map[string]bool
}

func (ks *keySet) allows(key string) bool {
	if ks.leaves[key] {
		return true
	}
	for prefix := range ks.open {
		if strings.HasPrefix(key, prefix+".") {
			return true
		}
	}
	return false
}

// declaredKeys walks the mapstructure names of cfg. It returns nil when cfg
// is not a pointer to a struct.
func declaredKeys(cfg interface{}) *keySet {
	t := reflect.TypeOf(cfg)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	ks := &keySet{leaves: make(map[string]bool), open: make(map[string]bool)}
	collectKeys(t, "", ks, map[reflect.Type]bool{})
	return ks
}

func collectKeys(t reflect.Type, prefix string, ks *keySet, path map[reflect.Type]bool) {
	if path[t] {
		return
	}
	path[t] = true
	defer delete(path, t)

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		name, opts, _ := strings.Cut(f.Tag.Get("mapstructure"), ",")
		if name == "-" {
			continue
		}
		ft := f.Type
		for ft.Kind() == reflect.Pointer {
			ft = ft.Elem()
		}
		// An untagged embedded struct decodes flat only when squashed, so
		// accept both spellings.
		if f.Anonymous && name == "" && ft.Kind() == reflect.Struct {
			collectKeys(ft, prefix, ks, path)
			collectKeys(ft, joinKey(prefix, strings.ToLower(f.Name)), ks, path)
			continue
		}
		if strings.Contains(opts, "squash") && ft.Kind() == reflect.Struct {
			collectKeys(ft, prefix, ks, path)
			continue
		}
		if name == "" {
			name = f.Name
		}
		key := joinKey(prefix, strings.ToLower(name))
		switch {
		case ft.Kind() == reflect.Map:
			ks.leaves[key] = true
			ks.open[key] = true
		case ft.Kind() == reflect.Struct && hasExportedFields(ft):
			collectKeys(ft, key, ks, path)
		default:
			ks.leaves[key] = true
		}
	}
}

func joinKey(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func hasExportedFields(t reflect.Type) bool {
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).IsExported() {
			return true
		}
	}
	return false
}

// envKeyVariants maps an underscore-separated variable to the dotted keys it
// may denote, since underscores also appear inside key names:
//
//	REGISTRY_ON_MISSING -> [registry_on_missing, registry.on.missing, registry.on_missing]
func envKeyVariants(envKey string) []string {
	lowerKey := strings.ToLower(envKey)
	parts := strings.Split(lowerKey, "_")
	if len(parts) <= 1 {
		return []string{lowerKey}
	}

	variants := []string{lowerKey, strings.Join(parts, ".")}
	for i := 1; i < len(parts); i++ {
		variants = append(variants, strings.Join(parts[:i], ".")+"."+strings.Join(parts[i:], "_"))
	}
	return removeDuplicates(variants)
}

func removeDuplicates(items []string) []string {
	seen := make(map[string]bool, len(items))
	result := make([]string, 0, len(items))
	for _, item := range items {
		if !seen[item] {
			seen[item] = true
			result = append(result, item)
		}
	}
	return result
}
