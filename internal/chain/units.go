package chain

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/params"
)

var (
	eth1  = new(big.Float).SetInt(new(big.Int).SetUint64(params.Ether))
	gwei1 = new(big.Float).SetInt(big.NewInt(params.GWei))
)

// WeiToETH converts a wei amount to ETH as float64.
func WeiToETH(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), eth1).Float64()
	return f
}

// WeiToGwei converts a Wei value to Gwei as float64.
func WeiToGwei(wei *big.Int) float64 {
	if wei == nil {
		return 0
	}
	f, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), gwei1).Float64()
	return f
}

// WeiToETHString formats a wei amount as an 18-decimal ETH string.
func WeiToETHString(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	f := new(big.Float).SetInt(wei)
	f.Quo(f, eth1)
	return f.Text('f', 18)
}

// Fee returns gasPrice * gasUsed in wei. The product is exact.
func Fee(gasPrice *big.Int, gasUsed uint64) *big.Int {
	if gasPrice == nil {
		return new(big.Int)
	}
	return new(big.Int).Mul(gasPrice, new(big.Int).SetUint64(gasUsed))
}

// NormalizeAddress trims and lower-cases an address for comparison.
func NormalizeAddress(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// LooksLikeAddress reports whether s is a 0x-prefixed 20-byte hex address.
// It is informational only; queries are never rejected on this basis.
func LooksLikeAddress(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// ChecksumAddress returns the EIP-55 form of addr, or addr unchanged if it
// is not a hex address.
func ChecksumAddress(addr string) string {
	if !LooksLikeAddress(addr) {
		return addr
	}
	return common.HexToAddress(strings.TrimSpace(addr)).Hex()
}
