package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/incidentlog/internal/seed"
)

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the sample incidents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			rows, err := seed.Load(cmd.Context(), a.store)
			for _, inc := range rows {
				fmt.Fprintf(cmd.OutOrStdout(), "Inserted incident ID: %d\n", inc.ID)
			}
			if err != nil {
				return err
			}
			a.logger.Info("sample data inserted", "count", len(rows))
			return nil
		},
	}
}
