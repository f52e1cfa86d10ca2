package cmd

import (
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/quantbin/grid"
)

func newConfigCmd(g *globalFlags) *cobra.Command {
	var samples, contigs int

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective grid configuration",
		Long: `Print the grid configuration as YAML after applying --config, --env-file
and QUANTBIN_* variables. With --samples and --contigs an "auto" key type is
resolved the way an index would resolve it.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("samples") || cmd.Flags().Changed("contigs") {
				cfg = cfg.Resolve(samples, contigs)
			}
			return writeYAML(cmd, cfg)
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 0, "Number of coverage samples")
	cmd.Flags().IntVar(&contigs, "contigs", 0, "Number of contigs")

	return cmd
}

func newSelectCmd() *cobra.Command {
	var samples, contigs int

	cmd := &cobra.Command{
		Use:   "select",
		Short: "Show the key type chosen for a data scale",
		RunE: func(cmd *cobra.Command, _ []string) error {
			kt := grid.SelectKeyType(samples, contigs)
			layout, _ := kt.Layout()
			dims := make([]string, 0, layout.Populated())
			for _, d := range layout {
				if d != grid.Unused {
					dims = append(dims, d.String())
				}
			}
			return writeYAML(cmd, map[string]any{
				"key_type":   kt,
				"dimensions": dims,
			})
		},
	}

	cmd.Flags().IntVar(&samples, "samples", 1, "Number of coverage samples")
	cmd.Flags().IntVar(&contigs, "contigs", 10_000, "Number of contigs")

	return cmd
}

func writeYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
