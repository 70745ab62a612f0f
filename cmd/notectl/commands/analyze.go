package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/benvon/smart-notes/internal/analyzer"
	"github.com/benvon/smart-notes/internal/assistant"
	"github.com/benvon/smart-notes/internal/models"
)

// NewAnalyzeCmd creates the analyze command
func NewAnalyzeCmd() *cobra.Command {
	var rulesPath string
	var withActions bool
	var noteID string

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Analyze note text",
		Long:  "Run the analyzer over a file (or stdin) and print the result as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readContent(args)
			if err != nil {
				return err
			}

			a, err := buildAnalyzer(rulesPath)
			if err != nil {
				return err
			}

			result := a.Analyze(content)

			output := struct {
				Analysis *models.AnalysisResult    `json:"analysis"`
				Actions  []*models.AssistantAction `json:"actions,omitempty"`
			}{Analysis: result}

			if withActions {
				generator := assistant.NewGenerator()
				output.Actions = generator.Generate(result, content, noteID)
			}

			encoder := json.NewEncoder(os.Stdout)
			encoder.SetIndent("", "  ")
			return encoder.Encode(output)
		},
	}

	cmd.Flags().StringVar(&rulesPath, "rules", "", "Path to a YAML rules override file")
	cmd.Flags().BoolVar(&withActions, "actions", false, "Also generate assistant action drafts")
	cmd.Flags().StringVar(&noteID, "note-id", "local", "Note ID used for generated action IDs")

	return cmd
}

func readContent(args []string) (string, error) {
	if len(args) == 1 && args[0] != "-" {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}

func buildAnalyzer(rulesPath string) (*analyzer.Analyzer, error) {
	rules := analyzer.DefaultRules()
	if rulesPath != "" {
		override, err := analyzer.LoadRulesFile(rulesPath)
		if err != nil {
			return nil, err
		}
		if err := rules.Merge(override); err != nil {
			return nil, err
		}
	}
	return analyzer.NewWithRules(rules)
}
