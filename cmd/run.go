package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	renderreport "github.com/PhilCANDIDO/IAM-AD/internal/adapters/render/report"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		flags      overrides
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one account lifecycle pass",
		Long:  "Classifies every directory account, notifies holders inside the lead window, deactivates accounts past the inactivity window, and mails the admin report. Per-account failures are reported, not fatal.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(configPath, flags)
			if err != nil {
				return err
			}
			defer app.close()

			summary, err := app.reconciler.Run(cmd.Context())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderreport.Render(summary, renderreport.RenderOptions{
				Title: app.cfg.ReportName,
			}))
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file")
	cmd.Flags().BoolVar(&flags.dryRun, "dry-run", false, "Compute and report decisions without mutating the directory or sending mail")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")

	return cmd
}
