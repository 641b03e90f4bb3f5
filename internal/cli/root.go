// Package cli implements the residuos command line: offline loading,
// summarizing and exporting of waste statistics files.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/residuos/internal/core"
)

// App holds the settings shared by every command.
type App struct {
	StrictRegions bool
}

// NewRootCmd creates the top-level "residuos" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "residuos",
		Short:         "Summarize waste-management statistics by facility type and UF",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVar(&app.StrictRegions, "strict-regions", app.StrictRegions,
		"Reject rows whose UF is not a Brazilian state")

	root.AddCommand(
		newOptionsCmd(app),
		newSummarizeCmd(app),
		newExportCmd(app),
	)

	return root
}

// load reads and parses a dataset file.
func (app *App) load(path string) (*core.Dataset, error) {
	format, err := core.DetectFormat(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return core.LoadWithOptions(data, format, core.LoadOptions{StrictRegions: app.StrictRegions})
}

// selectionFlags are the filter flags of summarize and export.
type selectionFlags struct {
	file          string
	facilityTypes []string
	regions       []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", "", "Input .xlsx or .csv file (required)")
	cmd.Flags().StringSliceVar(&f.facilityTypes, "facility-type", nil, "Facility types to include (default: all)")
	cmd.Flags().StringSliceVar(&f.regions, "region", nil, "UFs to include (default: all)")
	_ = cmd.MarkFlagRequired("file")
}

// spec builds the selection, defaulting each empty side to every value.
func (f *selectionFlags) spec(d *core.Dataset) core.FilterSpec {
	all := d.Options()
	types, regions := f.facilityTypes, f.regions
	if len(types) == 0 {
		types = all.FacilityTypes
	}
	if len(regions) == 0 {
		regions = all.Regions
	}
	return core.NewFilterSpec(types, regions)
}

// filtered loads the file and applies the selection.
func (app *App) filtered(f *selectionFlags) ([]core.Record, error) {
	d, err := app.load(f.file)
	if err != nil {
		return nil, err
	}
	spec := f.spec(d)
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return core.ApplyFilter(d, spec), nil
}
