package config

import "time"

// Environment variables read once at startup.
const (
	EnvAPIKey         = "ETHERSCAN_API_KEY"
	EnvAPIURL         = "ETHERSCAN_API_URL"
	EnvConfigDir      = "GASMON_CONFIG_DIR"
	EnvDefaultAddress = "GASMON_DEFAULT_ADDRESS"
	EnvListen         = "GASMON_LISTEN"
	EnvTimezone       = "GASMON_TIMEZONE"
	EnvRequestTimeout = "GASMON_REQUEST_TIMEOUT"
	EnvRateLimit      = "GASMON_RATE_LIMIT"
	EnvCORSOrigins    = "GASMON_CORS_ORIGINS"
	EnvLogLevel       = "LOG_LEVEL"
)

// Key sources reported by Config.KeySource.
const (
	KeySourceEnv      = "env"
	KeySourceKeychain = "keychain"
)

// ShutdownTimeout bounds graceful HTTP shutdown.
const ShutdownTimeout = 5 * time.Second
