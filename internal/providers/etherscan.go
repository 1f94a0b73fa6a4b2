package providers

import (
	"context"
	"time"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
)

// Etherscan is a provider backed by the Etherscan account API.
// It requires an API key and is nil-guarded: NewEtherscan returns nil if no key is set.
type Etherscan struct {
	client *chain.ExplorerClient
}

// NewEtherscan creates an Etherscan provider for baseURL (the public
// endpoint when empty). Returns nil if apiKey is empty.
func NewEtherscan(baseURL, apiKey string, opts ...chain.ExplorerOption) *Etherscan {
	if apiKey == "" {
		return nil
	}
	return &Etherscan{client: chain.NewExplorerClient(baseURL, apiKey, opts...)}
}

func (e *Etherscan) Name() string { return "etherscan" }

// BaseURL returns the endpoint the provider queries.
func (e *Etherscan) BaseURL() string { return e.client.BaseURL() }

func (e *Etherscan) GetTransactions(ctx context.Context, address string) ([]chain.RawTransaction, error) {
	return e.client.GetTransactions(ctx, address)
}

// Options builds explorer options from a timeout and a calls-per-second cap.
func Options(timeout time.Duration, ratePerSecond float64) []chain.ExplorerOption {
	return []chain.ExplorerOption{
		chain.WithTimeout(timeout),
		chain.WithRateLimit(ratePerSecond),
	}
}
