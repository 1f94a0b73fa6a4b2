package fees

import (
	"fmt"
	"sort"
	"time"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
)

// CleanedTransaction is a successful outgoing transaction with derived keys and amounts.
type CleanedTransaction struct {
	Hash         string    `json:"hash"`
	Year         int       `json:"year"`
	MonthKey     string    `json:"month"` // "M-YYYY"
	DayKey       string    `json:"day"`   // "M-D-YYYY"
	To           string    `json:"to"`
	FeeETH       float64   `json:"transaction_fee_eth"`
	GasPriceGwei float64   `json:"gas_price_gwei"`
	Time         time.Time `json:"time"`
}

// Bucket is the fee total of one calendar day or month.
type Bucket struct {
	Key         string    `json:"key"`
	Start       time.Time `json:"start"`
	TotalFeeETH float64   `json:"total_fee_eth"`
	Count       int       `json:"count"`
}

// TableRow is one display row of the detail table.
type TableRow struct {
	Info         string  `json:"info"` // markdown link to the explorer
	Hash         string  `json:"hash"`
	TxURL        string  `json:"tx_url"`
	Date         string  `json:"date"`
	To           string  `json:"to"`
	FeeETH       float64 `json:"fee_eth"`
	GasPriceGwei float64 `json:"gas_price_gwei"`
}

// Columns are the detail table titles in display order. The first column holds the info link.
var Columns = []string{"", "Date", "To", "Fees paid in ETH", "Transaction gas price in Gwei"}

// Report is the result of one fetch-and-aggregate cycle.
type Report struct {
	Address      string               `json:"address"`
	Period       Period               `json:"period"`
	Source       string               `json:"source,omitempty"`
	Transactions []CleanedTransaction `json:"transactions"`
	Buckets      []Bucket             `json:"buckets"`
	Rows         []TableRow           `json:"rows"`
	TotalFeeETH  float64              `json:"total_fee_eth"`
	GeneratedAt  time.Time            `json:"generated_at"`
}

// DayKey formats t as "M-D-YYYY" without zero padding.
func DayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", int(t.Month()), t.Day(), t.Year())
}

// MonthKey formats t as "M-YYYY" without zero padding.
func MonthKey(t time.Time) string {
	return fmt.Sprintf("%d-%d", int(t.Month()), t.Year())
}

// Clean keeps the transactions sent by address (case-insensitive) with a
// successful receipt, in input order. loc nil means time.Local.
func Clean(raw []chain.RawTransaction, address string, loc *time.Location) []CleanedTransaction {
	if loc == nil {
		loc = time.Local
	}
	want := chain.NormalizeAddress(address)

	out := make([]CleanedTransaction, 0, len(raw))
	for _, tx := range raw {
		if chain.NormalizeAddress(tx.From) != want || !tx.Succeeded() {
			continue
		}
		ts := time.Unix(tx.Timestamp, 0).In(loc)
		out = append(out, CleanedTransaction{
			Hash:         tx.Hash,
			Year:         ts.Year(),
			MonthKey:     MonthKey(ts),
			DayKey:       DayKey(ts),
			To:           tx.To,
			FeeETH:       chain.WeiToETH(tx.FeeWei()),
			GasPriceGwei: chain.WeiToGwei(tx.GasPrice),
			Time:         ts,
		})
	}
	return out
}

// bucketKey returns the grouping key and period start of tx. Any period
// other than Months groups by day.
func (p Period) bucketKey(tx CleanedTransaction) (string, time.Time) {
	t := tx.Time
	if p == Months {
		return tx.MonthKey, time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	}
	return tx.DayKey, time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Group sums FeeETH per day or month key. Buckets are ordered chronologically.
func Group(txs []CleanedTransaction, period Period) []Bucket {
	index := make(map[string]int)
	buckets := make([]Bucket, 0)

	for _, tx := range txs {
		key, start := period.bucketKey(tx)
		i, ok := index[key]
		if !ok {
			i = len(buckets)
			index[key] = i
			buckets = append(buckets, Bucket{Key: key, Start: start})
		}
		buckets[i].TotalFeeETH += tx.FeeETH
		buckets[i].Count++
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Start.Before(buckets[j].Start)
	})
	return buckets
}

// TxURL links hash on Etherscan.
func TxURL(hash string) string { return chain.TxURLPrefix + hash }

// Rows projects txs into the detail table, one row per transaction.
func Rows(txs []CleanedTransaction) []TableRow {
	rows := make([]TableRow, 0, len(txs))
	for _, tx := range txs {
		u := TxURL(tx.Hash)
		rows = append(rows, TableRow{
			Info:         fmt.Sprintf("[ℹ️](%s)", u),
			Hash:         tx.Hash,
			TxURL:        u,
			Date:         tx.DayKey,
			To:           tx.To,
			FeeETH:       tx.FeeETH,
			GasPriceGwei: tx.GasPriceGwei,
		})
	}
	return rows
}

// Aggregate runs Clean, Group and Rows over raw. It is a pure function of its
// inputs; GeneratedAt and Source are left for the caller.
func Aggregate(raw []chain.RawTransaction, address string, period Period, loc *time.Location) (*Report, error) {
	if !period.Valid() {
		return nil, fmt.Errorf("%w %q", ErrInvalidPeriod, string(period))
	}
	txs := Clean(raw, address, loc)

	var total float64
	for _, tx := range txs {
		total += tx.FeeETH
	}

	return &Report{
		Address:      address,
		Period:       period,
		Transactions: txs,
		Buckets:      Group(txs, period),
		Rows:         Rows(txs),
		TotalFeeETH:  total,
	}, nil
}
