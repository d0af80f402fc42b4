package main

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/incidentlog/internal/sheets"
	"github.com/MikeSquared-Agency/incidentlog/internal/store"
)

func newExportCmd() *cobra.Command {
	var (
		title  string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "export-sheet",
		Short: "Mirror all incidents into a new Google spreadsheet",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			list, err := a.store.List(cmd.Context(), store.ListFilter{})
			if err != nil {
				return err
			}

			if dryRun {
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, strings.Join(sheets.Headers, "\t"))
				for _, inc := range list {
					fmt.Fprintln(tw, strings.Join(sheets.Row(inc), "\t"))
				}
				return tw.Flush()
			}

			if a.cfg.SheetsWebhookURL == "" {
				return errors.New("SHEETS_WEBHOOK_URL is not set")
			}
			res, err := sheets.NewClient(a.cfg.SheetsWebhookURL, a.logger).Export(cmd.Context(), title, list)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.SpreadsheetURL)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", sheets.DefaultTitle, "spreadsheet title")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the rows instead of calling the webhook")
	return cmd
}
