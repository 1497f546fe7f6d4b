package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	renderreport "github.com/PhilCANDIDO/IAM-AD/internal/adapters/render/report"
)

func newPreviewCmd() *cobra.Command {
	var (
		configPath string
		flags      overrides
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Classify accounts without touching anything",
		Long:  "Runs classification and protection only: no directory mutation, no notifications, no admin report. Useful to audit the policy's first-run impact, in particular on accounts that never authenticated.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := wireApp(configPath, flags)
			if err != nil {
				return err
			}
			defer app.close()

			summary, err := app.reconciler.Preview(cmd.Context())
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(summary)
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderreport.Render(summary, renderreport.RenderOptions{
				Title: app.cfg.ReportName + " preview",
			}))
			return err
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration file")
	cmd.Flags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the summary as JSON")

	return cmd
}
