package chain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultExplorerURL is the Etherscan account API endpoint.
	DefaultExplorerURL = "https://api.etherscan.io/api"

	// TxURLPrefix links a transaction hash on Etherscan.
	TxURLPrefix = "https://etherscan.io/tx/"

	defaultTimeout   = 15 * time.Second
	defaultRateLimit = 5 // Etherscan free tier: 5 calls/s

	noTransactionsFound = "No transactions found"
)

// explorerResponse is the raw Etherscan/BlockScout-compatible API envelope.
// Result is kept as RawMessage because a failed call returns a plain string
// (e.g. "NOTOK" or an error message) while a successful call returns a JSON array.
type explorerResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// explorerTx uses pointers so an absent field can be told apart from an empty one.
type explorerTx struct {
	Hash            *string `json:"hash"`
	From            *string `json:"from"`
	To              *string `json:"to"`
	TimeStamp       *string `json:"timeStamp"`
	GasPrice        *string `json:"gasPrice"`
	GasUsed         *string `json:"gasUsed"`
	TxReceiptStatus *string `json:"txreceipt_status"`
}

// ExplorerClient lists account transactions from an Etherscan-compatible API.
type ExplorerClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
}

// ExplorerOption customises an ExplorerClient.
type ExplorerOption func(*ExplorerClient)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) ExplorerOption {
	return func(c *ExplorerClient) { c.client = hc }
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) ExplorerOption {
	return func(c *ExplorerClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithRateLimit caps outgoing calls per second. Zero or less disables the cap.
func WithRateLimit(perSecond float64) ExplorerOption {
	return func(c *ExplorerClient) {
		if perSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
}

// NewExplorerClient creates a client for baseURL (DefaultExplorerURL when empty).
func NewExplorerClient(baseURL, apiKey string, opts ...ExplorerOption) *ExplorerClient {
	if baseURL == "" {
		baseURL = DefaultExplorerURL
	}
	c := &ExplorerClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Limit(defaultRateLimit), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the configured API endpoint.
func (c *ExplorerClient) BaseURL() string { return c.baseURL }

// txListURL builds the txlist query. The address is lower-cased.
func (c *ExplorerClient) txListURL(address string) string {
	// Use "&" when baseURL already contains a "?" (e.g. Etherscan V2 includes ?chainid=X).
	sep := "?"
	if strings.Contains(c.baseURL, "?") {
		sep = "&"
	}
	u := fmt.Sprintf("%s%smodule=account&action=txlist&address=%s",
		c.baseURL, sep, url.QueryEscape(NormalizeAddress(address)))
	if c.apiKey != "" {
		u += "&apikey=" + url.QueryEscape(c.apiKey)
	}
	return u
}

// GetTransactions fetches the full transaction list of address with one request.
// Errors wrap ErrNetwork, ErrAPI or ErrData. An address without transactions
// yields an empty, non-nil slice.
func (c *ExplorerClient) GetTransactions(ctx context.Context, address string) ([]RawTransaction, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: waiting for rate limiter: %w", ErrNetwork, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.txListURL(address), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: building request: %w", ErrNetwork, redactURLError(err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: explorer request failed: %w", ErrNetwork, redactURLError(err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: explorer returned HTTP %d", ErrNetwork, resp.StatusCode)
	}

	var envelope explorerResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: parsing explorer response: %w", ErrNetwork, err)
	}
	return decodeTxList(envelope)
}

func decodeTxList(envelope explorerResponse) ([]RawTransaction, error) {
	result := bytes.TrimSpace(envelope.Result)

	// Non-success: result may be a plain error string, not an array.
	if envelope.Status != "1" {
		if bytes.Equal(result, []byte("[]")) || envelope.Message == noTransactionsFound {
			return []RawTransaction{}, nil
		}
		var msg string
		if err := json.Unmarshal(result, &msg); err == nil && msg != "" && msg != envelope.Message {
			return nil, fmt.Errorf("%w: %s: %s", ErrAPI, envelope.Message, msg)
		}
		if envelope.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrAPI, envelope.Message)
		}
		return nil, fmt.Errorf("%w: status %q", ErrAPI, envelope.Status)
	}

	if len(result) == 0 || bytes.Equal(result, []byte("null")) {
		return nil, fmt.Errorf("%w: response has no result", ErrData)
	}

	var raw []explorerTx
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("%w: parsing explorer tx list: %w", ErrData, err)
	}

	txs := make([]RawTransaction, 0, len(raw))
	for i, et := range raw {
		tx, err := et.decode()
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrData, i, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

func (et explorerTx) decode() (RawTransaction, error) {
	var tx RawTransaction

	fields := []struct {
		name string
		val  *string
	}{
		{"hash", et.Hash},
		{"from", et.From},
		{"to", et.To},
		{"timeStamp", et.TimeStamp},
		{"gasPrice", et.GasPrice},
		{"gasUsed", et.GasUsed},
		{"txreceipt_status", et.TxReceiptStatus},
	}
	for _, f := range fields {
		if f.val == nil {
			return tx, fmt.Errorf("missing field %q", f.name)
		}
	}

	tx.Hash = *et.Hash
	tx.From = *et.From
	tx.To = *et.To

	ts, err := strconv.ParseInt(*et.TimeStamp, 10, 64)
	if err != nil || ts < 0 {
		return tx, fmt.Errorf("field %q: invalid value %q", "timeStamp", *et.TimeStamp)
	}
	tx.Timestamp = ts

	gp, ok := new(big.Int).SetString(*et.GasPrice, 10)
	if !ok || gp.Sign() < 0 {
		return tx, fmt.Errorf("field %q: invalid value %q", "gasPrice", *et.GasPrice)
	}
	tx.GasPrice = gp

	gu, err := strconv.ParseUint(*et.GasUsed, 10, 64)
	if err != nil {
		return tx, fmt.Errorf("field %q: invalid value %q", "gasUsed", *et.GasUsed)
	}
	tx.GasUsed = gu

	// Pre-Byzantium receipts carry an empty status; they count as unsuccessful.
	if s := *et.TxReceiptStatus; s != "" {
		status, err := strconv.Atoi(s)
		if err != nil {
			return tx, fmt.Errorf("field %q: invalid value %q", "txreceipt_status", s)
		}
		tx.ReceiptStatus = status
	}
	return tx, nil
}

var apiKeyParam = regexp.MustCompile(`(?i)(apikey=)[^&\s"]*`)

// RedactAPIKey masks the apikey query value in s.
func RedactAPIKey(s string) string {
	return apiKeyParam.ReplaceAllString(s, "${1}REDACTED")
}

// redactURLError keeps API keys out of *url.Error messages.
func redactURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		ue.URL = RedactAPIKey(ue.URL)
	}
	return err
}
