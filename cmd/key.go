package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/gasmon/internal/config"
	"github.com/Mohsinsiddi/gasmon/internal/ui"
)

var keyCmd = &cobra.Command{
	Use:   "key",
	Short: "Manage the Etherscan API key in the OS keychain",
	Long: `Manage the Etherscan API key in the OS keychain.

ETHERSCAN_API_KEY, when set, takes priority over the stored key.`,
}

var keySetCmd = &cobra.Command{
	Use:   "set <api-key>",
	Short: "Store the API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key := strings.TrimSpace(args[0])
		if key == "" {
			return fmt.Errorf("%w: empty API key", config.ErrInvalidConfig)
		}
		if err := config.DefaultKeystore(cfg.Dir()).Store(key); err != nil {
			return err
		}
		fmt.Println(ui.Success("API key stored in keychain"))
		return nil
	},
}

var keyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the stored API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.DefaultKeystore(cfg.Dir()).Delete(); err != nil {
			return err
		}
		fmt.Println(ui.Success("API key removed from keychain"))
		return nil
	},
}

var keyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show where the API key would be read from",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := cfg.ResolveAPIKey(config.DefaultKeystore(cfg.Dir()))
		if errors.Is(err, config.ErrMissingAPIKey) {
			fmt.Println(ui.Warn(err.Error()))
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("API key %s found (%s)", maskKey(cfg.APIKey()), cfg.KeySource())))
		return nil
	},
}

// maskKey keeps the last four characters of key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}

func init() {
	keyCmd.AddCommand(keySetCmd, keyClearCmd, keyStatusCmd)
}
