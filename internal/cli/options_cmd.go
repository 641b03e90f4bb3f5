package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newOptionsCmd(app *App) *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List the facility types and UFs present in a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := app.load(file)
			if err != nil {
				return err
			}
			opts := d.Options()

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(opts)
			}

			fmt.Fprintf(out, "Registros: %d\n\nTipos de Unidade:\n", d.Len())
			for _, v := range opts.FacilityTypes {
				fmt.Fprintf(out, "  %s\n", v)
			}
			fmt.Fprintln(out, "\nEstados (UF):")
			for _, v := range opts.Regions {
				fmt.Fprintf(out, "  %s\n", v)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Input .xlsx or .csv file (required)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of text")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
