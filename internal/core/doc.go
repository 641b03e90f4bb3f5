// Package core provides the data pipeline behind the waste-management
// dashboard: loading uploaded files, filtering, grouped sums and the
// summary spreadsheet export.
//
// The package has no UI or transport dependencies. The web server and the
// CLI both drive it, and every pipeline step is a plain function over
// immutable inputs:
//
//	dataset, err := core.Load(data, core.FormatXLSX)
//	spec := core.NewFilterSpec([]string{"Aterro sanitário"}, []string{"SP", "RJ"})
//	if err := spec.Validate(); err != nil {
//	    // prompt for a complete selection
//	}
//	records := core.ApplyFilter(dataset, spec)
//	byRegion, _ := core.Summarize(records, []core.Field{core.FieldRegion})
//	artifact, _ := core.Export(records)
//
// # Data Model
//
// A [Record] carries a facility type, a region (UF) and five [Quantities],
// one per [Category]. Quantities are decimals, so sums are exact and do not
// depend on record order. [Totals.Predominant] breaks ties in favor of the
// category that comes first in canonical order: domestic_public, debris,
// pruning_waste, health_waste, other.
//
// # Sessions
//
// [Service] keeps each uploaded [Dataset] in a [SessionStore] keyed by a
// random UUID. Sessions expire after a period of inactivity and are removed
// by [SessionStore.StartEvictionScheduler]. Parsing is bounded by a
// [ParseLimiter] so that large spreadsheets cannot exhaust memory.
//
// # Error Handling
//
// Loading fails with [*ParseError], an empty selection with
// [*EmptySelectionError] and serialization with [*ExportError]. [MapError]
// turns any error into a [UserMessage] with a support code; see
// error_messages.go for the code table.
package core
