package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/model"
	"github.com/sells-group/schlagwetter/internal/provenance"
)

var provenanceCmd = &cobra.Command{
	Use:   "provenance <file>",
	Short: "List the provenance records of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("inspect"); err != nil {
			return err
		}

		store, err := provenance.Open(cmd.Context(), cfg.Provenance.Driver, cfg.Provenance.DSN)
		if err != nil {
			return eris.Wrap(err, "provenance: open store")
		}
		defer store.Close() //nolint:errcheck

		records, err := store.List(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if records == nil {
			records = []model.ProvenanceRecord{}
		}
		return jsonfile.Encode(cmd.OutOrStdout(), records)
	},
}

// recordProvenance adds one record for target produced by the configured agent.
func recordProvenance(ctx context.Context, store provenance.Store, target, activity, description string, sources []string, started time.Time) error {
	rec := model.ProvenanceRecord{
		Target:      target,
		Agents:      []string{cfg.Provenance.Agent},
		Activity:    activity,
		Description: description,
		Sources:     sources,
		StartedAt:   started,
		EndedAt:     time.Now().UTC(),
	}
	if cfg.Source.PrimaryURL != "" {
		rec.PrimarySources = []string{cfg.Source.PrimaryURL}
	}
	if err := store.Add(ctx, rec); err != nil {
		return eris.Wrapf(err, "%s: record provenance", activity)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(provenanceCmd)
}
