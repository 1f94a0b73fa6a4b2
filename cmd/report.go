package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Mohsinsiddi/gasmon/internal/fees"
	"github.com/Mohsinsiddi/gasmon/internal/ui"
)

var (
	reportAddress string
	reportPeriod  string
	reportJSON    bool
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a gas spend report in the terminal",
	Example: `  gasmon report
  gasmon report --address 0xD710B4cbF1A4E510F6c6e9245c5Cb65c4eB3Dc02 --period months
  gasmon report --json`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		period, err := fees.ParsePeriod(reportPeriod)
		if err != nil {
			return err
		}
		address := reportAddress
		if address == "" {
			address = cfg.DefaultAddress
		}

		svc, err := newService()
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		spin := ui.NewSpinner(fmt.Sprintf("Fetching transactions for %s…", ui.TruncateAddr(address)))
		spin.Start()
		rep, err := svc.Report(ctx, address, period)
		spin.Stop()
		if err != nil {
			return err
		}

		if reportJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(rep)
		}
		fmt.Fprint(cmd.OutOrStdout(), ui.RenderReport(rep))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportAddress, "address", "", "address to report on (default from config)")
	reportCmd.Flags().StringVar(&reportPeriod, "period", "days", "aggregation period: days or months")
	reportCmd.Flags().BoolVar(&reportJSON, "json", false, "print the report as JSON")
}
