package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/gasmon/internal/config"
	"github.com/Mohsinsiddi/gasmon/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show current configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return err
		}
		fmt.Printf("%s\n\n", ui.StyleTitle.Render("Current Configuration"))
		fmt.Println(string(data))
		fmt.Println(ui.Meta("Config directory: " + cfg.Dir()))
		return nil
	},
}

// editConfig applies fn to the config file as stored, without the
// environment overrides, validates and saves it.
func editConfig(fn func(c *config.Config)) error {
	stored, err := config.Load(cfg.Dir())
	if err != nil {
		return err
	}
	fn(stored)
	if err := stored.Validate(); err != nil {
		return err
	}
	return stored.Save()
}

var configSetDefaultAddressCmd = &cobra.Command{
	Use:   "set-default-address <address>",
	Short: "Set the address shown when none is given",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := editConfig(func(c *config.Config) { c.DefaultAddress = args[0] }); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Default address set to %s", ui.Addr(args[0]))))
		return nil
	},
}

var configSetListenCmd = &cobra.Command{
	Use:   "set-listen <host:port>",
	Short: "Set the dashboard listen address",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := editConfig(func(c *config.Config) { c.Listen = args[0] }); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Listen address set to %q", args[0])))
		return nil
	},
}

var configSetTimezoneCmd = &cobra.Command{
	Use:   "set-timezone <IANA name>",
	Short: "Set the timezone for day and month grouping (empty for local)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := editConfig(func(c *config.Config) { c.Timezone = args[0] }); err != nil {
			return err
		}
		fmt.Println(ui.Success(fmt.Sprintf("Timezone set to %q", args[0])))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd, configSetDefaultAddressCmd, configSetListenCmd, configSetTimezoneCmd)
}
