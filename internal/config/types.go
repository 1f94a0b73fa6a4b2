package config

// Config holds all gasmon configuration.
type Config struct {
	DefaultAddress string   `json:"default_address"`
	Listen         string   `json:"listen"`
	APIURL         string   `json:"api_url"`
	Timezone       string   `json:"timezone,omitempty"` // IANA name; empty = process local time
	RequestTimeout int      `json:"request_timeout"`    // seconds
	RateLimit      float64  `json:"rate_limit"`         // explorer calls per second, 0 = unlimited
	CORSOrigins    []string `json:"cors_origins,omitempty"`
	LogLevel       string   `json:"log_level"`

	// internal: resolved at startup, never written to config.json
	apiKey    string
	keySource string

	// internal: config dir path used for Save()
	configDir string
}
