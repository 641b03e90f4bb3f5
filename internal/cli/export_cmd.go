package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/residuos/internal/core"
)

func newExportCmd(app *App) *cobra.Command {
	var sel selectionFlags
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the facility type and UF summary spreadsheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := app.filtered(&sel)
			if err != nil {
				return err
			}

			artifact, err := core.Export(records)
			if err != nil {
				return err
			}

			if err := os.WriteFile(out, artifact.Data, 0o644); err != nil {
				return &core.ExportError{Op: "write " + out, Err: err}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Resumo gravado em %s (%d linhas)\n", out, artifact.Rows)
			return nil
		},
	}

	sel.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", core.ExportFileName, "Output .xlsx path")
	return cmd
}
