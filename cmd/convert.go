package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/schlagwetter/internal/convert"
	"github.com/sells-group/schlagwetter/internal/provenance"
)

var convertOutput string

var convertCmd = &cobra.Command{
	Use:   "convert <xml_data_file>",
	Short: "Convert the accident XML archive to JSON",
	Long:  "Parses the XML export into nested mappings, writes it as indented JSON (replacing the output) and records provenance for the result.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		input := args[0]

		if err := convert.CheckInput(input); err != nil {
			return err
		}
		if err := cfg.Validate("convert"); err != nil {
			return err
		}

		store, err := provenance.Open(ctx, cfg.Provenance.Driver, cfg.Provenance.DSN)
		if err != nil {
			return eris.Wrap(err, "convert: open provenance store")
		}
		defer store.Close() //nolint:errcheck

		output := convertOutput
		if output == "" {
			output = cfg.Files.JSONData
		}

		res, err := convert.Run(ctx, convert.Options{
			Input:         input,
			Output:        output,
			Agent:         cfg.Provenance.Agent,
			PrimarySource: cfg.Source.PrimaryURL,
		}, store)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), res.Output)
		return nil
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertOutput, "output", "o", "", "JSON output path (default files.json_data)")
	rootCmd.AddCommand(convertCmd)
}
