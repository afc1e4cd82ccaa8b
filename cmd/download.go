package main

import (
	"fmt"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/schlagwetter/internal/fetcher"
	"github.com/sells-group/schlagwetter/internal/provenance"
)

const downloadActivity = "download"

var downloadOutput string

var downloadCmd = &cobra.Command{
	Use:   "download",
	Short: "Download the accident XML archive from its publisher",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		if err := cfg.Validate("download"); err != nil {
			return err
		}

		output := downloadOutput
		if output == "" {
			output = cfg.Files.XMLData
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent:  cfg.Download.UserAgent,
			Timeout:    time.Duration(cfg.Download.TimeoutSecs) * time.Second,
			MaxRetries: cfg.Download.MaxRetries,
		})

		store, err := provenance.Open(ctx, cfg.Provenance.Driver, cfg.Provenance.DSN)
		if err != nil {
			return eris.Wrap(err, "download: open provenance store")
		}
		defer store.Close() //nolint:errcheck

		started := time.Now().UTC()
		n, err := f.DownloadToFile(ctx, cfg.Source.PrimaryURL, output)
		if err != nil {
			return eris.Wrap(err, "download")
		}

		zap.L().Info("downloaded archive",
			zap.String("url", cfg.Source.PrimaryURL),
			zap.String("output", output),
			zap.Int64("bytes", n),
		)

		if err := recordProvenance(ctx, store, output, downloadActivity,
			"Download the accident archive from its primary source.", nil, started); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	},
}

func init() {
	downloadCmd.Flags().StringVarP(&downloadOutput, "output", "o", "", "XML output path (default files.xml_data)")
	rootCmd.AddCommand(downloadCmd)
}
