package main

import (
	"github.com/spf13/cobra"

	"github.com/sells-group/schlagwetter/internal/dataset"
	"github.com/sells-group/schlagwetter/internal/jsonfile"
)

var namePatronsCmd = &cobra.Command{
	Use:   "get-name-patrons [json_data_file]",
	Short: "Print the sorted list of mine names",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, err := dataset.Open(argOr(args, 0, cfg.Files.JSONData), cfg.Schema)
		if err != nil {
			return err
		}

		names, err := dataset.NamePatrons(ds, cfg.Schema)
		if err != nil {
			return err
		}
		return jsonfile.Encode(cmd.OutOrStdout(), names)
	},
}

func init() {
	rootCmd.AddCommand(namePatronsCmd)
}
