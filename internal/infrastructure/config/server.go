package config

import "time"

// ServerConfig holds the long-running `serve` configuration
type ServerConfig struct {
	// gRPC health service address (host:port)
	GRPCAddress string `mapstructure:"grpc_address" validate:"required,listen_addr"`

	// Lock file that keeps a second server from starting
	PIDFile string `mapstructure:"pid_file"`

	// Graceful shutdown timeout
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"required"`

	// Leaderboard kinds swept after every refresh so the first query hits a warm cache
	Prewarm []string `mapstructure:"prewarm" validate:"dive,oneof=alchemy manufacture gather chain enhance forge resale inherit"`
}
