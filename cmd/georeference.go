package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/schlagwetter/internal/dataset"
	"github.com/sells-group/schlagwetter/internal/export"
	"github.com/sells-group/schlagwetter/internal/jsonfile"
	"github.com/sells-group/schlagwetter/internal/provenance"
	"github.com/sells-group/schlagwetter/pkg/geocode"
)

// ErrOutputExists guards the coordinates file against accidental replacement.
var ErrOutputExists = eris.New("Output file already exists. use --overwrite to replace")

const georeferenceActivity = "georeference"

var (
	georefOverwrite bool
	georefOutput    string
	georefReport    string
	georefGeoJSON   string
)

// georefParams holds the resolved inputs of one georeference run.
type georefParams struct {
	Input     string
	Output    string
	Overwrite bool
	Delay     time.Duration
	Report    string
	GeoJSON   string
}

var georeferenceCmd = &cobra.Command{
	Use:   "georeference [json_data_file]",
	Short: "Look up coordinates for every accident location",
	Long:  "Queries the geocoding service once per distinct location, writes the location to coordinate mapping and prints the locations that could not be resolved.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("georeference"); err != nil {
			return err
		}

		p := georefParams{
			Input:     argOr(args, 0, cfg.Files.JSONData),
			Output:    georefOutput,
			Overwrite: georefOverwrite,
			Delay:     time.Duration(cfg.Geocode.DelayMS) * time.Millisecond,
			Report:    georefReport,
			GeoJSON:   georefGeoJSON,
		}
		if p.Output == "" {
			p.Output = cfg.Files.CoordsData
		}
		if err := checkOverwrite(p.Output, p.Overwrite); err != nil {
			return err
		}

		client := geocode.NewClient(
			geocode.WithURLTemplate(cfg.Geocode.URLTemplate),
			geocode.WithUserAgent(cfg.Geocode.UserAgent),
			geocode.WithTimeout(time.Duration(cfg.Geocode.TimeoutSecs)*time.Second),
		)

		store, err := provenance.Open(cmd.Context(), cfg.Provenance.Driver, cfg.Provenance.DSN)
		if err != nil {
			return eris.Wrap(err, "georeference: open provenance store")
		}
		defer store.Close() //nolint:errcheck

		return runGeoreference(cmd.Context(), cmd.OutOrStdout(), client, store, p)
	},
}

func checkOverwrite(path string, overwrite bool) error {
	if !overwrite && jsonfile.Exists(path) {
		return ErrOutputExists
	}
	return nil
}

func runGeoreference(ctx context.Context, w io.Writer, client geocode.Client, store provenance.Store, p georefParams) error {
	if err := checkOverwrite(p.Output, p.Overwrite); err != nil {
		return err
	}

	ds, err := dataset.Open(p.Input, cfg.Schema)
	if err != nil {
		return err
	}
	locations, err := dataset.Locations(ds, cfg.Schema)
	if err != nil {
		return err
	}

	started := time.Now().UTC()
	log := zap.L().With(zap.String("input", p.Input), zap.Int("locations", len(locations)))
	log.Info("georeferencing locations")

	out, err := geocode.Georeference(ctx, client, locations,
		geocode.WithDelay(p.Delay),
		geocode.WithProgress(func(done, total int, location string) {
			log.Debug("georeferenced", zap.Int("done", done), zap.Int("total", total), zap.String("location", location))
		}),
	)
	if err != nil {
		return eris.Wrap(err, "georeference")
	}

	if err := jsonfile.Write(p.Output, out.Coordinates); err != nil {
		return err
	}

	missed := out.Missed
	if missed == nil {
		missed = []string{}
	}
	fmt.Fprintln(w, "Missed:")
	if err := jsonfile.Encode(w, missed); err != nil {
		return eris.Wrap(err, "georeference: print missed")
	}

	if p.Report != "" {
		if err := writeReport(p.Report, out); err != nil {
			return err
		}
	}
	if p.GeoJSON != "" {
		if err := export.WriteCoordinatesGeoJSON(p.GeoJSON, out.Coordinates); err != nil {
			return err
		}
	}

	return recordProvenance(ctx, store, p.Output, georeferenceActivity,
		"Georeference accident locations.", []string{p.Input}, started)
}

func writeReport(path string, out *geocode.Outcome) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrap(err, "georeference: create report")
	}
	defer f.Close() //nolint:errcheck

	return export.WriteGeoreferenceReport(f, out.Coordinates, out.Missed)
}

func init() {
	georeferenceCmd.Flags().BoolVar(&georefOverwrite, "overwrite", false, "replace an existing coordinates file")
	georeferenceCmd.Flags().StringVarP(&georefOutput, "output", "o", "", "coordinates output path (default files.coords_data)")
	georeferenceCmd.Flags().StringVar(&georefReport, "report", "", "also write a Markdown report to this path")
	georeferenceCmd.Flags().StringVar(&georefGeoJSON, "geojson", "", "also write resolved coordinates as GeoJSON to this path")
	rootCmd.AddCommand(georeferenceCmd)
}
