package fees

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
)

// Fetcher returns the raw transaction history of an address with a single call.
type Fetcher interface {
	GetTransactions(ctx context.Context, address string) ([]chain.RawTransaction, error)
}

// Service runs fetch-and-aggregate cycles.
type Service struct {
	fetcher Fetcher
	source  string
	loc     *time.Location
	log     *zap.Logger
	now     func() time.Time
}

// NewService creates a Service. loc nil means time.Local; log nil disables logging.
func NewService(f Fetcher, loc *time.Location, log *zap.Logger) *Service {
	if loc == nil {
		loc = time.Local
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{fetcher: f, loc: loc, log: log, now: time.Now}
	if n, ok := f.(interface{ Name() string }); ok {
		s.source = n.Name()
	}
	return s
}

// Report fetches the history of address and aggregates it by period.
// Fetch errors are returned unchanged; nothing partial is returned on failure.
func (s *Service) Report(ctx context.Context, address string, period Period) (*Report, error) {
	if !period.Valid() {
		return nil, ErrInvalidPeriod
	}
	address = strings.TrimSpace(address)
	if !chain.LooksLikeAddress(address) {
		s.log.Debug("address does not look like a hex address, querying anyway", zap.String("address", address))
	}

	start := s.now()
	raw, err := s.fetcher.GetTransactions(ctx, address)
	if err != nil {
		return nil, err
	}

	rep, err := Aggregate(raw, address, period, s.loc)
	if err != nil {
		return nil, err
	}
	rep.Source = s.source
	rep.GeneratedAt = s.now()

	s.log.Info("report built",
		zap.String("source", s.source),
		zap.String("address", address),
		zap.String("period", period.String()),
		zap.Int("fetched", len(raw)),
		zap.Int("kept", len(rep.Transactions)),
		zap.Int("buckets", len(rep.Buckets)),
		zap.Duration("took", rep.GeneratedAt.Sub(start)),
	)
	return rep, nil
}

// Location returns the timezone used for day and month keys.
func (s *Service) Location() *time.Location { return s.loc }
