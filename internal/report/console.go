// Package report prints run results as console tables.
package report

import (
	"fmt"
	"io"
	"os"

	"energy-market/internal/analysis"
	"energy-market/internal/simulation"

	"github.com/olekukonko/tablewriter"
)

type Console struct {
	out io.Writer
}

// NewConsole writes to stdout.
func NewConsole() *Console {
	return &Console{out: os.Stdout}
}

// NewConsoleWriter writes to w; used by tests.
func NewConsoleWriter(w io.Writer) *Console {
	return &Console{out: w}
}

// PrintSummary prints the market totals and economic indexes of one run.
func (c *Console) PrintSummary(title string, s analysis.Summary) {
	fmt.Fprintf(c.out, "\n%s\n", title)

	table := tablewriter.NewWriter(c.out)
	table.Header("Metric", "Value")
	table.Append("Trades", fmt.Sprintf("%d", s.Trades))
	table.Append("Traded kWh", fmt.Sprintf("%.3f", s.TradedEnergy))
	table.Append("Trade value", fmt.Sprintf("%.4f", s.TradeValue))
	table.Append("Trade price min/max", fmt.Sprintf("%.4f / %.4f", s.MinPrice, s.MaxPrice))
	table.Append("Trade price p05/p95", fmt.Sprintf("%.4f / %.4f", s.P05Price, s.P95Price))
	table.Append("Provider buy", fmt.Sprintf("%.4f", s.ProviderBuy))
	table.Append("Provider sell", fmt.Sprintf("%.4f", s.ProviderSell))
	table.Append("Traditional buyers", fmt.Sprintf("%.4f", s.TraditionalBuyers))
	table.Append("Traditional sellers", fmt.Sprintf("%.4f", s.TraditionalSellers))
	table.Append("OTC value", fmt.Sprintf("%.4f", s.OTCValue))
	table.Append("Average price", fmt.Sprintf("%.4f", s.Indexes.AveragePrice))
	table.Append("Price dispersion", fmt.Sprintf("%.4f", s.Indexes.PriceDispersion))
	table.Append("Payment reduction", fmt.Sprintf("%.2f%%", s.Indexes.PaymentReduction))
	table.Append("Income increase", fmt.Sprintf("%.2f%%", s.Indexes.IncomeIncrease))
	table.Append("Community welfare", fmt.Sprintf("%.2f%%", s.Indexes.CommunityWelfare))
	table.Render()
}

// PrintParticipants prints one row per participant.
func (c *Console) PrintParticipants(ps []simulation.ParticipantSummary) {
	if len(ps) == 0 {
		fmt.Fprintln(c.out, "no participants")
		return
	}
	table := tablewriter.NewWriter(c.out)
	table.Header("ID", "Type", "Cost", "Revenue", "Net", "Battery")
	for _, p := range ps {
		kind := "consumer"
		battery := "-"
		if p.IsProsumer {
			kind = "prosumer"
			battery = fmt.Sprintf("%.2f/%.2f", p.Storage, p.BatteryCapacity)
		}
		table.Append(
			p.ID,
			kind,
			fmt.Sprintf("%.4f", p.Cost),
			fmt.Sprintf("%.4f", p.Revenue),
			fmt.Sprintf("%+.4f", p.Net()),
			battery,
		)
	}
	table.Render()
}

// PrintRanking prints compared scenarios, best community welfare first.
func (c *Console) PrintRanking(ranked []analysis.NamedSummary) {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Scenario", "Trades", "Avg price", "Pay red.", "Income inc.", "Welfare")
	for i, r := range ranked {
		idx := r.Summary.Indexes
		table.Append(
			fmt.Sprintf("%d", i+1),
			r.Name,
			fmt.Sprintf("%d", r.Summary.Trades),
			fmt.Sprintf("%.4f", idx.AveragePrice),
			fmt.Sprintf("%.2f%%", idx.PaymentReduction),
			fmt.Sprintf("%.2f%%", idx.IncomeIncrease),
			fmt.Sprintf("%.2f%%", idx.CommunityWelfare),
		)
	}
	table.Render()
}
