package cmd

import (
	"go.uber.org/zap"

	"github.com/Mohsinsiddi/gasmon/internal/config"
	"github.com/Mohsinsiddi/gasmon/internal/fees"
	"github.com/Mohsinsiddi/gasmon/internal/providers"
)

// newService resolves the API key and wires the Etherscan provider into a
// fee service. It fails before any network activity when no key resolves.
func newService() (*fees.Service, error) {
	if err := cfg.ResolveAPIKey(config.DefaultKeystore(cfg.Dir())); err != nil {
		return nil, err
	}
	p, err := providers.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	log.Debug("explorer configured",
		zap.String("provider", p.Name()),
		zap.String("api_url", p.BaseURL()),
		zap.String("key_source", cfg.KeySource()),
	)
	return fees.NewService(p, cfg.Location(), log), nil
}
