package introspection

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// WriteJSON writes r as indented JSON.
func WriteJSON(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes a human readable summary of r.
func WriteText(w io.Writer, r Report) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Task %s: %d solution(s)\n\n", r.Task.Name, len(r.Solutions))
	fmt.Fprintln(tw, "STAGE\tKIND\tSOLUTIONS\tFAILURES\tELAPSED")
	for _, s := range r.Task.Stages {
		name := strings.Repeat("  ", s.Depth) + s.Address
		if s.Error != "" {
			name += " (error: " + s.Error + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", name, s.Kind, s.Solutions, s.Failures, s.Elapsed)
	}
	for i, sol := range r.Solutions {
		fmt.Fprintf(tw, "\n#%d\tcost %g\t%s -> %s\n", i+1, sol.Cost, sol.Start, sol.End)
		for _, sub := range sol.Sub {
			fmt.Fprintf(tw, "\t%s\t%g\t%s -> %s\n", sub.Stage, sub.Cost, sub.Start, sub.End)
		}
	}
	return tw.Flush()
}
