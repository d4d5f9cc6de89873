package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/initializ/pkgforge/config"
	"github.com/initializ/pkgforge/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages in build order with their pipelines",
	RunE:  runList,
}

func runList(cmd *cobra.Command, args []string) error {
	cfgPath, err := configPath()
	if err != nil {
		return err
	}
	file, err := config.LoadBuildConfig(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "#\tPACKAGE\tASSETS\tPIPELINE\n")
	for i, d := range file.Packages {
		assets := d.Assets
		if assets == nil {
			assets = file.Assets
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\n", i+1, d.Name, len(assets), pipelineNames(file.EffectivePipeline(d)))
	}
	return w.Flush()
}

func pipelineNames(refs []types.StepRef) string {
	if len(refs) == 0 {
		return "-"
	}
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return strings.Join(names, " → ")
}
