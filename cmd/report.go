package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sheetcoach/internal/report"
)

var reportCmd = &cobra.Command{
	Use:   "report <interview-id>",
	Short: "Download the report of a finished interview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		dir, _ := cmd.Flags().GetString("out")
		if dir == "" {
			dir = d.cfg.ReportDir
		}

		doc, err := d.client.FetchReport(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("fetch report: %w", err)
		}
		path, err := report.Write(dir, args[0], doc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func init() {
	reportCmd.Flags().String("out", "", "Directory to write the report to (default: report_dir from config)")
}
