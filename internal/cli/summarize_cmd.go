package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/residuos/internal/core"
)

func newSummarizeCmd(app *App) *cobra.Command {
	var sel selectionFlags
	var groupBy []string

	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Sum the five waste quantities grouped by facility type and/or UF",
		Example: `  residuos summarize -f fluxo.xlsx --region SP,RJ
  residuos summarize -f fluxo.csv --facility-type Aterro --group-by facility_type,region`,
		RunE: func(cmd *cobra.Command, args []string) error {
			fields, err := parseGroupBy(groupBy)
			if err != nil {
				return err
			}

			records, err := app.filtered(&sel)
			if err != nil {
				return err
			}

			summary, err := core.Summarize(records, fields)
			if err != nil {
				return err
			}

			return writeSummary(cmd.OutOrStdout(), summary)
		},
	}

	sel.register(cmd)
	cmd.Flags().StringSliceVar(&groupBy, "group-by", []string{string(core.FieldRegion)},
		"Grouping fields: facility_type, region (one or two)")
	return cmd
}

func parseGroupBy(values []string) ([]core.Field, error) {
	fields := make([]core.Field, 0, len(values))
	for _, v := range values {
		f, ok := core.ParseField(v)
		if !ok {
			return nil, fmt.Errorf("cannot group by %q (use facility_type or region)", v)
		}
		fields = append(fields, f)
	}
	if err := core.ValidateGroupBy(fields); err != nil {
		return nil, err
	}
	return fields, nil
}

// writeSummary prints the groups as an aligned table followed by the
// total and the predominant category.
func writeSummary(w io.Writer, s *core.GroupSummary) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)

	header := make([]string, 0, len(s.GroupBy)+core.NumCategories+1)
	for _, f := range s.GroupBy {
		header = append(header, f.Label())
	}
	for _, c := range core.Categories {
		header = append(header, c.Label())
	}
	header = append(header, "Total")
	fmt.Fprintln(tw, strings.Join(header, "\t")+"\t")

	for _, g := range s.Groups {
		row := append([]string(nil), g.Key...)
		for _, c := range core.Categories {
			row = append(row, g.Quantities.Get(c).StringFixed(2))
		}
		row = append(row, g.Total().StringFixed(2))
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	totals := s.Totals()
	fmt.Fprintf(w, "\nGrupos: %d\n", s.Len())
	fmt.Fprintf(w, "Total de Resíduos (ton): %s\n", totals.Sum().StringFixed(2))
	if s.Len() > 0 {
		fmt.Fprintf(w, "Tipo de Resíduo Predominante: %s\n", totals.Predominant().Label())
	}
	return nil
}
