package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/abhisek/sheetcoach/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past interviews from the local audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		dbPath, err := resolveDBPath(cfg)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		limit, _ := cmd.Flags().GetInt("limit")
		records, err := st.HistoryRepo().RecentInterviews(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("read history: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No interviews yet.")
			return nil
		}
		return writeHistory(cmd, records)
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum number of interviews to list (0 for all)")
}

func writeHistory(cmd *cobra.Command, records []store.InterviewRecord) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tINTERVIEW\tEMAIL\tANSWERS\tHINTS\tBAND\tPERCENT")
	for _, r := range records {
		band, percent := "-", "-"
		if r.Completed() {
			band = r.Band
			percent = strconv.FormatFloat(r.OverallPercent, 'f', -1, 64) + "%"
		}
		email := r.CandidateEmail
		if email == "" {
			email = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.InterviewID, email, r.Answers, r.Hints, band, percent)
	}
	return w.Flush()
}
