package commands

import (
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewRulesCmd creates the rules command
func NewRulesCmd() *cobra.Command {
	var rulesPath string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Dump the effective rule set",
		Long:  "Print the analyzer rule set as YAML, with any override file applied",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildAnalyzer(rulesPath)
			if err != nil {
				return err
			}

			encoder := yaml.NewEncoder(os.Stdout)
			defer func() {
				_ = encoder.Close()
			}()
			return encoder.Encode(a.Rules())
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a YAML rules override file")

	return cmd
}
