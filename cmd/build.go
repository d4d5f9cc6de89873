package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/initializ/pkgforge/builder"
	"github.com/initializ/pkgforge/config"
	"github.com/initializ/pkgforge/stages"
	"github.com/initializ/pkgforge/validate"
)

var (
	buildVersion string
	strictBuild  bool
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build every package in order",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildVersion, "version", "", "version written into every package (default: version from the config file)")
	buildCmd.Flags().BoolVar(&strictBuild, "strict", false, "exit with an error if any package fails")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfgPath, err := configPath()
	if err != nil {
		return err
	}
	file, err := config.LoadBuildConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	reg := stages.Default()
	result := validate.ValidateBuildConfig(file, reg.Has)
	if !result.IsValid() {
		printResult(cmd.ErrOrStderr(), result.Errors, nil)
		return fmt.Errorf("config validation failed: %d error(s)", len(result.Errors))
	}

	cfg, err := builder.NewConfig(file, reg)
	if err != nil {
		return fmt.Errorf("resolving build pipeline: %w", err)
	}

	version := buildVersion
	if version == "" {
		version = file.Version
	}

	reporter, err := newReporter(cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	b := builder.New(&config.FileArtifactLoader{}, builder.WithReporter(reporter), builder.WithVerbose(verbose))
	rep, err := b.Run(ctx, version, cfg)
	if err != nil {
		return fmt.Errorf("build aborted: %w", err)
	}

	if failed := rep.Failed(); strictBuild && len(failed) > 0 {
		return fmt.Errorf("build failed: %d of %d package(s) failed", len(failed), len(rep.Results))
	}
	return nil
}
