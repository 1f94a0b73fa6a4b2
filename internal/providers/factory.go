package providers

import (
	"github.com/Mohsinsiddi/gasmon/internal/config"
)

// FromConfig builds the Etherscan provider from a resolved config. It returns
// config.ErrMissingAPIKey when the config carries no key.
func FromConfig(cfg *config.Config) (*Etherscan, error) {
	e := NewEtherscan(cfg.APIURL, cfg.APIKey(), Options(cfg.Timeout(), cfg.RateLimit)...)
	if e == nil {
		return nil, config.ErrMissingAPIKey
	}
	return e, nil
}
