package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/symptomcheck/internal/logging"
	"yashubustudio/symptomcheck/symptoms"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration helpers",
	}
	var out string
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter config file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if out == "" {
				return errors.New("--out is required")
			}
			cfg := symptoms.Config{
				Data: symptoms.DataConfig{
					Dataset:      "data/dataset.csv",
					Descriptions: "data/symptom_Description.csv",
					Precautions:  "data/symptom_precaution.csv",
					Severity:     "data/Symptom-severity.csv",
				},
				Model: symptoms.ModelConfig{
					Candidates: []symptoms.ModelCandidate{
						{Name: "primary", Kind: symptoms.KindONNX, Path: "models/disease_model.onnx", Labels: "models/labels.json"},
						{Name: "fallback", Kind: symptoms.KindONNX, Path: "models/random_forest_model.onnx", Labels: "models/labels.json"},
					},
				},
			}
			if err := symptoms.SaveConfig(out, cfg); err != nil {
				return err
			}
			a.logger.Debug("config written", logging.String("path", out))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
			return nil
		},
	}
	initCmd.Flags().StringVar(&out, "out", "", "config file to write")
	cmd.AddCommand(initCmd)
	return cmd
}
