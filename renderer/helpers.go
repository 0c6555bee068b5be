package renderer

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/etnz/equitywise"
	"github.com/etnz/equitywise/date"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// streamName is the display name of a stream.
func streamName(stream string) string {
	if stream == equitywise.DefaultStream {
		return "default"
	}
	return stream
}

// observed prints a resolved observation, flagging fallbacks to an earlier date.
func observed(format string, obs equitywise.Observation, on date.Date) string {
	v := fmt.Sprintf(format, obs.Value.InexactFloat64())
	if !obs.Date.IsZero() && obs.Date != on {
		v += fmt.Sprintf(" (%s)", obs.Date)
	}
	return v
}

// cell escapes the characters that would break a markdown table cell.
func cell(s string) string {
	return strings.NewReplacer("|", `\|`, "\n", " ").Replace(s)
}

// renderFailures writes the failures as an issues table, nothing if there is none.
func renderFailures(w io.Writer, level int, failures []equitywise.Failure) {
	ConditionalBlock(w, func(w io.Writer) bool {
		fmt.Fprintf(w, "%s Issues\n\n", strings.Repeat("#", level))
		fmt.Fprintln(w, "| Date | Stream | Record | Error |")
		fmt.Fprintln(w, "|:---|:---|:---|:---|")
		for _, f := range failures {
			fmt.Fprintf(w, "| %s | %s | %s | %s |\n", f.Date, streamName(f.Stream), cell(f.Record), cell(f.Err.Error()))
		}
		fmt.Fprintln(w)
		return len(failures) > 0
	})
}
