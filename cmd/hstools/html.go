package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"hstools/internal/paths"
	"hstools/internal/profile"
	"hstools/internal/qstr"
	"hstools/internal/resolver"
	"hstools/pkg/rewriter"
)

type rewriteFlags struct {
	profile   string
	output    string
	base      string
	inlineCSS bool
	stats     bool
}

func (f *rewriteFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "Rewrite profile (.json, .yaml or .yml)")
	cmd.Flags().StringVarP(&f.output, "output", "o", "", `Output file (default: out.<name> next to the input, "-" for stdout)`)
	cmd.Flags().StringVarP(&f.base, "base", "b", "", "Base path relative references resolve against (default \"/\")")
	cmd.Flags().BoolVar(&f.stats, "stats", false, "Show processing statistics")
}

func newHTMLCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "html",
		Short: "Rewrite HTML and CSS for the target theme",
	}

	cmd.AddCommand(
		newAssetURLCmd(a),
		newExtractCmd(a),
		newStripQstrCmd(a),
		newHSURLCmd(a),
	)
	return cmd
}

func newAssetURLCmd(a *app) *cobra.Command {
	flags := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "asset-url INPUT",
		Short: "Rewrite resource references in an HTML or CSS file to asset URLs",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			input := args[0]
			content, err := readInput(input)
			if err != nil {
				return err
			}

			rw := a.rewriter(flags, flags.profile)

			var result *rewriter.Result
			if strings.EqualFold(filepath.Ext(input), ".css") {
				result, err = rw.RewriteCSS(content)
			} else {
				result, err = rw.RewriteHTML(content)
			}
			if err != nil {
				return fmt.Errorf("failed to rewrite %s: %w", input, err)
			}

			return a.finish(input, flags, result)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.inlineCSS, "inline-css", false, "Also rewrite <style> elements and style attributes")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	flags := &rewriteFlags{}

	cmd := &cobra.Command{
		Use:   "extract INPUT",
		Short: "Extract the content element of a page and rewrite its references",
		Long: "Extract keeps the first element matching the profile's extract.src selector, removes\n" +
			"the first match of each extract.drops selector inside it and rewrites what remains.\n" +
			"The profile defaults to $EXTRACT_PROFILE.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			input := args[0]
			if ext := strings.ToLower(filepath.Ext(input)); ext != ".html" && ext != ".htm" {
				return fmt.Errorf("%s: extract needs an .html or .htm file", input)
			}

			profilePath := flags.profile
			if profilePath == "" {
				profilePath = a.cfg.ExtractProfile
			}
			if profilePath == "" {
				a.log.Warn("no profile given and EXTRACT_PROFILE is not set")
			}

			content, err := readInput(input)
			if err != nil {
				return err
			}

			result, err := a.rewriter(flags, profilePath).Extract(content)
			if err != nil {
				if !errors.Is(err, rewriter.ErrSelectorNotFound) {
					return fmt.Errorf("failed to extract from %s: %w", input, err)
				}
				a.log.Warn("writing document unmodified", "input", input, "reason", err)
			}

			return a.finish(input, flags, result)
		},
	}

	flags.register(cmd)
	return cmd
}

func newStripQstrCmd(a *app) *cobra.Command {
	var match string

	cmd := &cobra.Command{
		Use:   "strip-qstr DIR",
		Short: "Remove query strings from downloaded file names (style.css?ver=1 -> style.css)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := qstr.Strip(args[0], match, a.log)
			if err != nil {
				return err
			}

			for _, r := range report.Renamed {
				fmt.Fprintf(a.stdout, "%s -> %s\n", r.From, r.To)
			}
			for _, f := range report.Failed {
				fmt.Fprintf(a.stderr, "failed: %v\n", f)
			}
			if n := len(report.Failed); n > 0 {
				return fmt.Errorf("%d file(s) could not be renamed", n)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&match, "match", "**", "Only rename files whose path relative to DIR matches this glob")
	return cmd
}

func newHSURLCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hs-url SRC",
		Short: "Print the asset URL expression for a theme-relative path",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.Validate(); err != nil {
				return err
			}

			ref, err := resolver.New(a.cfg.Theme).AssetReference(paths.Normalize(args[0], "/"))
			if err != nil {
				return err
			}

			fmt.Fprintln(a.stdout, ref)
			return nil
		},
	}
}

// rewriter builds the engine for one command. An unusable profile is
// reported and replaced by the empty profile.
func (a *app) rewriter(flags *rewriteFlags, profilePath string) *rewriter.Rewriter {
	prof, err := profile.LoadOrEmpty(profilePath)
	if err != nil {
		a.log.Warn("ignoring profile", "error", err)
	}

	cfg := a.cfg
	if flags.base != "" {
		cfg.BasePath = flags.base
	}
	cfg.InlineCSS = flags.inlineCSS

	return rewriter.New(cfg, prof, a.log.With("component", "rewriter"))
}

// finish writes the output and reports what changed
func (a *app) finish(input string, flags *rewriteFlags, result *rewriter.Result) error {
	output := flags.output
	if output == "" {
		output = defaultOutputPath(input)
	}

	changeLog := a.stdout
	if output == "-" {
		changeLog = a.stderr
		if _, err := fmt.Fprint(a.stdout, result.Output); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	} else if err := writeOutput(result.Output, output); err != nil {
		return err
	}

	for _, c := range result.Changes {
		fmt.Fprintln(changeLog, c.String())
	}

	if flags.stats {
		showProcessingStats(a.stderr, result, input)
	}

	a.log.Info("wrote output", "input", input, "output", output, "changes", len(result.Changes))
	return nil
}

// defaultOutputPath is out.<name> next to the input
func defaultOutputPath(input string) string {
	return filepath.Join(filepath.Dir(input), "out."+filepath.Base(input))
}

func readInput(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return string(data), nil
}
