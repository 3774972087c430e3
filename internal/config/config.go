// Package config manages user preferences stored in
// ~/.config/apigw/config.toml. Config stores only local defaults (region,
// profile, api id, function name, stage). AWS is the source of truth for
// all resource state; nothing remote is cached here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Config holds user preferences from ~/.config/apigw/config.toml.
// All fields use flat snake_case TOML keys.
type Config struct {
	Region             string `mapstructure:"region"               toml:"region"`
	Profile            string `mapstructure:"profile"              toml:"profile"`
	APIGatewayID       string `mapstructure:"api_gateway_id"       toml:"api_gateway_id"`
	LambdaFunctionName string `mapstructure:"lambda_function_name" toml:"lambda_function_name"`
	Stage              string `mapstructure:"stage"                toml:"stage"`
}

// validator is a function that validates a string value for a config key.
type validator func(value string) error

// validators maps config keys to their validation functions.
var validators = map[string]validator{
	"region":               validateRegion,
	"profile":              validateAny,
	"api_gateway_id":       validateAPIGatewayID,
	"lambda_function_name": validateAny,
	"stage":                validateStage,
}

// ValidKeys returns the sorted list of valid config key names.
func ValidKeys() []string {
	keys := make([]string, 0, len(validators))
	for k := range validators {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// DefaultConfigDir returns the default config directory path
// (~/.config/apigw). If APIGW_CONFIG_DIR is set, that value is used instead.
func DefaultConfigDir() string {
	if dir := os.Getenv("APIGW_CONFIG_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".config", "apigw")
	}
	return filepath.Join(home, ".config", "apigw")
}

// Load reads the config file from configDir/config.toml and returns a Config
// with defaults applied for any missing keys. If the file does not exist,
// all defaults are returned without error.
func Load(configDir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(configDir)

	v.SetDefault("region", "")
	v.SetDefault("profile", "")
	v.SetDefault("api_gateway_id", "")
	v.SetDefault("lambda_function_name", "")
	v.SetDefault("stage", "prod")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to configDir/config.toml, creating the directory
// if it does not exist.
func Save(cfg *Config, configDir string) error {
	if err := os.MkdirAll(configDir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	v := viper.New()
	v.Set("region", cfg.Region)
	v.Set("profile", cfg.Profile)
	v.Set("api_gateway_id", cfg.APIGatewayID)
	v.Set("lambda_function_name", cfg.LambdaFunctionName)
	v.Set("stage", cfg.Stage)

	path := filepath.Join(configDir, "config.toml")
	if err := v.WriteConfigAs(path); err != nil {
		return err
	}
	return os.Chmod(path, 0o600)
}

// Set validates and applies a single key-value pair to the config.
// Returns an error if the key is unknown or the value fails validation.
func (c *Config) Set(key, value string) error {
	validate, ok := validators[key]
	if !ok {
		return fmt.Errorf("unknown config key %q; valid keys: %s", key, strings.Join(ValidKeys(), ", "))
	}

	if err := validate(value); err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}

	switch key {
	case "region":
		c.Region = value
	case "profile":
		c.Profile = value
	case "api_gateway_id":
		c.APIGatewayID = value
	case "lambda_function_name":
		c.LambdaFunctionName = value
	case "stage":
		c.Stage = value
	}

	return nil
}

// regionPattern matches valid AWS region formats like us-east-1, eu-central-1.
var regionPattern = regexp.MustCompile(`^[a-z]{2}-[a-z]+-\d+$`)

func validateRegion(value string) error {
	if value == "" {
		return nil // empty clears the region
	}
	if !regionPattern.MatchString(value) {
		return fmt.Errorf("%q does not match AWS region format (e.g., us-east-1)", value)
	}
	return nil
}

// apiIDPattern matches API Gateway REST API ids (lowercase alphanumeric).
var apiIDPattern = regexp.MustCompile(`^[a-z0-9]+$`)

func validateAPIGatewayID(value string) error {
	if value == "" {
		return nil // empty clears the default api id
	}
	if !apiIDPattern.MatchString(value) {
		return fmt.Errorf("%q is not a valid API Gateway id", value)
	}
	return nil
}

// stagePattern matches deployable stage names.
var stagePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

func validateStage(value string) error {
	if value == "" {
		return fmt.Errorf("stage cannot be empty")
	}
	if !stagePattern.MatchString(value) {
		return fmt.Errorf("%q is not a valid stage name", value)
	}
	return nil
}

func validateAny(string) error { return nil }
