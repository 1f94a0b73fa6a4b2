package fixtures

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"
)

// Address is the account the txlist fixtures were recorded for.
const Address = "0xD710B4cbF1A4E510F6c6e9245c5Cb65c4eB3Dc02"

// fixturesDir returns the absolute path to the fixtures directory.
func fixturesDir() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Dir(file)
}

// LoadTxList loads a recorded Etherscan txlist response body.
func LoadTxList(t *testing.T, filename string) []byte {
	t.Helper()
	path := filepath.Join(fixturesDir(), "etherscan", filename)
	data, err := os.ReadFile(path)
	require.NoError(t, err, "failed to load fixture txlist: %s", filename)
	return data
}
