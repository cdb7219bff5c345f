package cmd

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/sheetcoach/internal/service"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show the service's grading totals across all interviews",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		m, err := d.client.Metrics(cmd.Context())
		if err != nil {
			return fmt.Errorf("fetch metrics from %s: %w", d.cfg.API.BaseURL, err)
		}
		return writeMetrics(cmd, m)
	},
}

func writeMetrics(cmd *cobra.Command, m *service.ServiceMetrics) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Answers graded:\t%d\n", m.TotalAnswers)
	fmt.Fprintf(w, "Average score:\t%s\n", strconv.FormatFloat(m.AvgScore, 'f', -1, 64))
	if len(m.PerSkillAvg) > 0 {
		fmt.Fprintln(w, "\nSKILL\tAVERAGE")
		for _, skill := range slices.Sorted(maps.Keys(m.PerSkillAvg)) {
			fmt.Fprintf(w, "%s\t%s\n", skill, strconv.FormatFloat(m.PerSkillAvg[skill], 'f', -1, 64))
		}
	}
	return w.Flush()
}
