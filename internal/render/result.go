package render

import (
	"fmt"
	"strconv"

	"subarray/internal/analysis"
)

// NoMatch is printed in place of the sentinel result.
const NoMatch = "no matching subarray"

// Result renders a one-line summary of r produced by the named analyzer.
func Result(styles Styles, name string, r analysis.Result) string {
	label := styles.Bold.Render(name + ":")
	if !r.Found() {
		return label + " " + styles.Muted.Render(NoMatch)
	}
	return fmt.Sprintf("%s %s %s",
		label,
		styles.Success.Render(fmt.Sprintf("[%d..%d]", r.StartIndex(), r.EndIndex())),
		styles.Body.Render("total="+FormatFloat(r.Total())),
	)
}

// Cells returns the start, end, length and total columns for r. The
// sentinel renders as dashes.
func Cells(r analysis.Result) []string {
	if !r.Found() {
		return []string{"-", "-", "0", "-"}
	}
	return []string{
		strconv.Itoa(r.StartIndex()),
		strconv.Itoa(r.EndIndex()),
		strconv.Itoa(r.Len()),
		FormatFloat(r.Total()),
	}
}

// FormatFloat prints v in its shortest round-trip form.
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
