package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/gasmon/internal/dashboard"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web dashboard",
	Long: `Start the gas spend dashboard.

Open the printed URL, enter an address and pick Days or Months. Every change
fetches the history again; a newer request from the same browser cancels the
one still in flight.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Flags().Changed("listen") {
			cfg.Listen = serveListen
			if err := cfg.Validate(); err != nil {
				return err
			}
		}

		svc, err := newService()
		if err != nil {
			return err
		}
		srv, err := dashboard.NewServer(dashboard.OptionsFromConfig(cfg, verbose), svc, log)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "listen address (default from config: 127.0.0.1:8888)")
}
