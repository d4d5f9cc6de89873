// Package cmd implements the pkgforge CLI commands.
package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/initializ/pkgforge/builder"
	"github.com/initializ/pkgforge/report"
)

var (
	cfgFile       string
	verbose       bool
	logFormat     string
	themeOverride string
	colorFlag     string
)

var rootCmd = &cobra.Command{
	Use:   "pkgforge",
	Short: "pkgforge — build multi-package projects in dependency order",
	Long:  "pkgforge builds every package of a project in the configured order, running each through its build pipeline and reporting failures without stopping the run.",

	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "pkgforge.yaml", "build config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log output format: text or json")
	rootCmd.PersistentFlags().StringVar(&themeOverride, "theme", "", "color theme: dark, light, or auto")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "colored output: auto, always, or never")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
}

// SetVersionInfo sets the version and commit for display.
func SetVersionInfo(version, commit string) {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("pkgforge %s (commit: %s)\n", version, commit))
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func configPath() (string, error) {
	if filepath.IsAbs(cfgFile) {
		return cfgFile, nil
	}
	wd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getting working directory: %w", err)
	}
	return filepath.Join(wd, cfgFile), nil
}

func newReporter(w io.Writer) (builder.Reporter, error) {
	switch logFormat {
	case "json":
		return report.NewJSON(w, verbose), nil
	case "", "text":
	default:
		return nil, fmt.Errorf("invalid log format %q (want text or json)", logFormat)
	}

	mode, err := report.ParseColorMode(colorFlag)
	if err != nil {
		return nil, err
	}
	if mode == report.ColorAuto && !isTerminal(w) {
		mode = report.ColorNever
	}
	return report.NewConsole(w, report.DetectTheme(themeOverride), mode, verbose), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func printResult(w io.Writer, errs, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "WARNING: %s\n", msg)
	}
	for _, msg := range errs {
		fmt.Fprintf(w, "ERROR: %s\n", msg)
	}
}
