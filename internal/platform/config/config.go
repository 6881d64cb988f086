// Copyright (c) 2026 TNS Labs. All rights reserved.
// Author: dev@tnslabs.io

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, Chain) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"math/big"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the TNS API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for session token signing
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Blockchain endpoint
	ChainRPCURL      string `env:"CHAIN_RPC_URL"      envDefault:"https://intuition.calderachain.xyz"`
	ChainID          int64  `env:"CHAIN_ID"           envDefault:"1155"`
	ChainName        string `env:"CHAIN_NAME"         envDefault:"Intuition"`
	ChainCurrency    string `env:"CHAIN_CURRENCY"     envDefault:"TRUST"`
	ChainExplorerURL string `env:"CHAIN_EXPLORER_URL" envDefault:"https://explorer.intuition.systems"`

	// Receipt polling
	ReceiptPollIntervalMs int `env:"RECEIPT_POLL_INTERVAL_MS" envDefault:"2000"`
	ReceiptPollAttempts   int `env:"RECEIPT_POLL_ATTEMPTS"    envDefault:"60"`

	// Deployed contract addresses
	RegistryAddress         string `env:"TNS_REGISTRY_ADDRESS,required"`
	BaseRegistrarAddress    string `env:"TNS_BASE_REGISTRAR_ADDRESS,required"`
	ControllerAddress       string `env:"TNS_CONTROLLER_ADDRESS,required"`
	ResolverAddress         string `env:"TNS_RESOLVER_ADDRESS,required"`
	ReverseRegistrarAddress string `env:"TNS_REVERSE_REGISTRAR_ADDRESS,required"`
	PriceOracleAddress      string `env:"TNS_PRICE_ORACLE_ADDRESS,required"`
	PaymentForwarderAddress string `env:"TNS_PAYMENT_FORWARDER_ADDRESS"`
	MultiVaultAddress       string `env:"INTUITION_MULTIVAULT_ADDRESS" envDefault:"0x6E35cF57A41fA15eA0EaE9C33e751b01A784Fe7e"`

	// DefaultAtomCostWei is the fallback Knowledge-Graph stake per atom,
	// used when the getAtomCost view is unavailable.
	DefaultAtomCostWei string `env:"DEFAULT_ATOM_COST_WEI" envDefault:"100000000001000000"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if _, ok := new(big.Int).SetString(cfg.DefaultAtomCostWei, 10); !ok {
		return nil, fmt.Errorf("config: DEFAULT_ATOM_COST_WEI is not a decimal integer: %q", cfg.DefaultAtomCostWei)
	}

	return cfg, nil
}

// ChainIDBig returns the configured chain ID as a big integer.
func (c *Config) ChainIDBig() *big.Int {
	return big.NewInt(c.ChainID)
}

// DefaultAtomCost returns the fallback atom stake as exact wei.
func (c *Config) DefaultAtomCost() *big.Int {
	cost, _ := new(big.Int).SetString(c.DefaultAtomCostWei, 10)
	return cost
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
