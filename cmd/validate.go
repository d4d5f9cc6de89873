package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/initializ/pkgforge/builder"
	"github.com/initializ/pkgforge/config"
	"github.com/initializ/pkgforge/stages"
	"github.com/initializ/pkgforge/validate"
)

var strictValidate bool

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the build config and every package's compiler config",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().BoolVar(&strictValidate, "strict", false, "treat warnings as errors")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfgPath, err := configPath()
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(cfgPath)
	if err != nil {
		return fmt.Errorf("reading build config %s: %w", cfgPath, err)
	}
	schemaErrs, err := validate.ValidateBuildConfigDocument(raw)
	if err != nil {
		return err
	}
	if len(schemaErrs) > 0 {
		printResult(cmd.ErrOrStderr(), schemaErrs, nil)
		return fmt.Errorf("validation failed: %d error(s)", len(schemaErrs))
	}

	file, err := config.LoadBuildConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	result := validate.ValidateBuildConfig(file, stages.Default().Has)

	// Check the artifact of every package whose name is safe to join.
	cfg := &builder.Config{PackageRoot: file.PackageRoot, ConfigFile: file.ConfigFile}
	b := builder.New(&config.FileArtifactLoader{})
	for i, d := range file.Packages {
		if builder.ValidatePackageName(d.Name) != nil {
			continue
		}
		if _, err := b.NewContext(builder.Package{Name: d.Name}, "", cfg); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("packages[%d]: %v", i, err))
		}
	}

	printResult(cmd.ErrOrStderr(), result.Errors, result.Warnings)

	if strictValidate && len(result.Warnings) > 0 {
		return fmt.Errorf("validation failed: %d warning(s) treated as errors in strict mode", len(result.Warnings))
	}
	if !result.IsValid() {
		return fmt.Errorf("validation failed: %d error(s)", len(result.Errors))
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Validation passed.")
	return nil
}
