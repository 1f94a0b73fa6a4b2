package ui

import (
	"fmt"
	"strings"

	"github.com/Mohsinsiddi/gasmon/internal/chain"
	"github.com/Mohsinsiddi/gasmon/internal/fees"
)

const chartWidth = 40

// RenderReport renders a report as summary, chart and detail table.
func RenderReport(rep *fees.Report) string {
	var sb strings.Builder

	sb.WriteString(KeyValueBlock("Gas spend monitor", [][2]string{
		{"Address", chain.ChecksumAddress(rep.Address)},
		{"Period", rep.Period.String()},
		{"Transactions", fmt.Sprintf("%d", len(rep.Transactions))},
		{"Total fees", FormatETH(rep.TotalFeeETH) + " ETH"},
	}))
	sb.WriteString("\n\n")

	if len(rep.Transactions) == 0 {
		sb.WriteString(Meta("No successful outgoing transactions found."))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(StyleTitle.Render("Fees by " + strings.ToLower(strings.TrimSuffix(rep.Period.String(), "s"))))
	sb.WriteString("\n")
	sb.WriteString(BarChart(rep.Buckets, chartWidth))
	sb.WriteString("\n")

	t := NewTable([]Column{
		{Title: "Tx", Width: 14},
		{Title: fees.Columns[1], Width: 10},
		{Title: fees.Columns[2], Width: 14},
		{Title: fees.Columns[3], Width: 18, Right: true},
		{Title: "Gas price (Gwei)", Width: 16, Right: true},
	})
	for _, r := range rep.Rows {
		t.AddRow(Row{
			TruncateAddr(r.Hash),
			r.Date,
			TruncateAddr(r.To),
			FormatETH(r.FeeETH),
			FormatGwei(r.GasPriceGwei),
		})
	}
	sb.WriteString(t.Render())
	sb.WriteString(Meta(fmt.Sprintf("Explorer: %s<hash>", chain.TxURLPrefix)))
	sb.WriteString("\n")
	return sb.String()
}
