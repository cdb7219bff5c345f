package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sheetcoach/internal/service"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the interview service is reachable and compatible",
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := setup(cmd)
		if err != nil {
			return err
		}
		defer d.Close()

		status, err := d.client.Health(cmd.Context())
		if err != nil {
			return fmt.Errorf("health check %s: %w", d.cfg.API.BaseURL, err)
		}
		if !status.OK {
			return fmt.Errorf("service at %s reports unhealthy", d.cfg.API.BaseURL)
		}
		if err := service.CheckCompatibility(status.Version); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s ok (version %s)\n", d.cfg.API.BaseURL, status.Version)
		return nil
	},
}
