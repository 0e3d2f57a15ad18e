package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"hstools/internal/classify"
	"hstools/pkg/rewriter"
)

// writeOutput creates filename and writes content to it, reporting a failed
// close as a write failure.
func writeOutput(content, filename string) (err error) {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", filename, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file %s: %w", filename, cerr)
		}
	}()

	if _, err := io.WriteString(f, content); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", filename, err)
	}
	return nil
}

// showProcessingStats displays processing statistics
func showProcessingStats(w io.Writer, result *rewriter.Result, filename string) {
	fmt.Fprintf(w, "\nProcessing Statistics for %s:\n", filename)
	fmt.Fprintf(w, "  Elements processed: %d\n", result.Stats.ElementsProcessed)
	fmt.Fprintf(w, "  Values seen: %d\n", result.Stats.ValuesSeen)
	fmt.Fprintf(w, "  Values rewritten: %d\n", result.Stats.ValuesRewritten)
	fmt.Fprintf(w, "  Target host URLs: %d\n", result.Stats.TargetHost)

	kinds := make([]classify.Kind, 0, len(result.Stats.Kinds))
	for k := range result.Stats.Kinds {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, k := range kinds {
		fmt.Fprintf(w, "  %s: %d\n", k, result.Stats.Kinds[k])
	}
}
