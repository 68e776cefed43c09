package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/symptomcheck/internal/logging"
	"yashubustudio/symptomcheck/symptoms"
)

func newVocabCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vocab",
		Short: "Build or inspect the symptom vocabulary",
	}
	cmd.AddCommand(newVocabBuildCmd(a), newVocabShowCmd(a))
	return cmd
}

func newVocabBuildCmd(a *app) *cobra.Command {
	var dataset, out string
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a vocabulary snapshot from the training dataset",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dataset == "" || out == "" {
				return errors.New("--dataset and --out are required")
			}
			ds, err := symptoms.LoadDataset(dataset)
			if err != nil {
				return err
			}
			vocab, err := symptoms.BuildVocabulary(ds)
			if err != nil {
				return err
			}
			if err := symptoms.SaveSnapshot(out, vocab); err != nil {
				return err
			}
			a.logger.Info("vocabulary snapshot written",
				logging.String("path", out),
				logging.Int("symptoms", vocab.Size()),
				logging.Int("diseases", len(vocab.Diseases())))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d symptoms, %d diseases)\n", out, vocab.Size(), len(vocab.Diseases()))
			return nil
		},
	}
	cmd.Flags().StringVar(&dataset, "dataset", "", "training CSV with Disease and Symptom_N columns")
	cmd.Flags().StringVar(&out, "out", "", "snapshot JSON to write")
	return cmd
}

func newVocabShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the configured vocabulary",
		RunE: func(cmd *cobra.Command, _ []string) error {
			vocab, _, err := a.openExtractor()
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), symptoms.Snapshot{
				Symptoms: vocab.Symptoms(),
				Diseases: vocab.Diseases(),
			})
		},
	}
}
