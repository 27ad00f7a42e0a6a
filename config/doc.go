// Package config loads service configuration with Viper.
//
// Values come from a YAML file, then a .env file (godotenv), then the
// process environment, each layer overriding the previous one.
//
// # Usage
//
//	var cfg config.ServiceConfig
//	err := config.LoadConfig("orders", &cfg, config.WithEnvPrefix("ORDERS"))
//
// With the ORDERS prefix, ORDERS_REGISTRY_ON_MISSING=panic sets
// registry.on_missing.
package config
