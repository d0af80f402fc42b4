package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/incidentlog/internal/incident"
	"github.com/MikeSquared-Agency/incidentlog/internal/registry"
)

func newParseCmd() *cobra.Command {
	var fallbackOnly bool
	cmd := &cobra.Command{
		Use:   "parse <transcript>",
		Short: "Parse a transcript against the stored names and print the draft",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			reg := registry.New(a.store, a.logger)
			if err := reg.Refresh(cmd.Context()); err != nil {
				return err
			}

			cfg := a.cfg
			if fallbackOnly {
				cfg.GeneratorProvider = ""
			}
			p, err := newParser(cmd.Context(), cfg, reg, a.logger)
			if err != nil {
				return err
			}

			draft, source := p.Parse(cmd.Context(), strings.Join(args, " "))
			a.logger.Debug("parsed transcript", "source", source)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Source string         `json:"source"`
				Draft  incident.Draft `json:"draft"`
			}{string(source), draft})
		},
	}
	cmd.Flags().BoolVar(&fallbackOnly, "fallback-only", false, "skip the generator and use rule-based extraction")
	return cmd
}
