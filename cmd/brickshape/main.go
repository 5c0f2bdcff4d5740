// Package main provides the brickshape binary entry point.
// Brickshape answers schema questions about Brick building ontologies: class
// hierarchy, tags and SHACL property shapes.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/brickshape/export"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "brickshape"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			_, _ = fmt.Fprintf(os.Stderr, "PANIC: %v\nStack trace:\n%s\n", r, string(buf[:n]))
			os.Exit(2)
		}
	}()

	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// flags holds the options shared by every command. Empty values leave the
// loaded configuration untouched.
type flags struct {
	configPath  string
	sources     []string
	prefixes    map[string]string
	format      string
	logLevel    string
	maxDepth    int
	labelPolicy string
}

func rootCmd() *cobra.Command {
	f := &flags{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Query Brick ontology classes and property shapes",
		Long: `Brickshape loads a Brick building ontology (Turtle or N-Triples) and
answers schema questions about it:

- class hierarchy (subclasses, superclasses)
- associated tags
- SHACL property shapes, including nested not/and/or/xone constraints

Queries run once from the command line, or are served over NATS with
"brickshape serve".`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configPath, "config", "c", "", "Config file path (YAML); default is layered brickshape.yaml lookup")
	pf.StringArrayVarP(&f.sources, "source", "s", nil, "Ontology file, directory or glob (repeatable)")
	pf.StringToStringVar(&f.prefixes, "prefix", nil, "Extra prefix binding, e.g. --prefix bldg=http://example.org/building#")
	pf.StringVarP(&f.format, "format", "f", string(export.FormatText),
		"Output format ("+strings.Join(export.FormatNames(), ", ")+")")
	pf.StringVar(&f.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	pf.IntVar(&f.maxDepth, "max-depth", 0, "Maximum nesting depth of logical constraints")
	pf.StringVar(&f.labelPolicy, "label-policy", "", "How to combine multiple labels (first, join)")

	for _, c := range queryCommands(f) {
		cmd.AddCommand(c)
	}
	cmd.AddCommand(serveCmd(f))

	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// newLogger builds the stderr text logger used by every command.
func newLogger(w io.Writer, level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}
