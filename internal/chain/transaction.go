package chain

import "math/big"

// RawTransaction is one entry of an explorer txlist response after schema
// validation. Values are read-only once decoded.
type RawTransaction struct {
	Hash          string
	From          string
	To            string
	Timestamp     int64    // seconds since epoch
	GasPrice      *big.Int // wei per unit of gas
	GasUsed       uint64
	ReceiptStatus int // 1 = success
}

// Succeeded reports whether the receipt status marks the transaction as successful.
func (t RawTransaction) Succeeded() bool { return t.ReceiptStatus == 1 }

// FeeWei returns gasPrice * gasUsed.
func (t RawTransaction) FeeWei() *big.Int { return Fee(t.GasPrice, t.GasUsed) }
