package providers

import (
	"context"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
)

// Provider fetches the transaction history of an address.
type Provider interface {
	Name() string
	GetTransactions(ctx context.Context, address string) ([]chain.RawTransaction, error)
}
