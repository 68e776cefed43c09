package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"yashubustudio/symptomcheck/internal/logging"
	"yashubustudio/symptomcheck/symptoms"
)

func newFeaturesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "features",
		Short: "Feature matrix tools",
	}
	var dataset, out, severity string
	export := &cobra.Command{
		Use:   "export",
		Short: "Write the training feature matrix as CSV",
		Long: "Writes one row per dataset example. Vectors are binary unless\n" +
			"--severity names a Symptom/weight CSV, which switches to weighted values.",
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
			builder := symptoms.NewFeatureBuilder(vocab)
			if severity != "" {
				meta, err := symptoms.LoadMetadata(symptoms.MetadataPaths{Severity: severity})
				if err != nil {
					return err
				}
				builder = symptoms.NewSeverityFeatureBuilder(vocab, meta.SeverityWeights())
			}
			x, y := symptoms.TrainingMatrix(ds, builder)
			if err := symptoms.WriteTrainingMatrix(out, vocab.Symptoms(), x, y); err != nil {
				return err
			}
			a.logger.Info("feature matrix written",
				logging.String("path", out),
				logging.Int("rows", len(x)),
				logging.Bool("binary", builder.Binary()))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d rows x %d features)\n", out, len(x), builder.Len())
			return nil
		},
	}
	export.Flags().StringVar(&dataset, "dataset", "", "training CSV with Disease and Symptom_N columns")
	export.Flags().StringVar(&out, "out", "", "CSV file to write")
	export.Flags().StringVar(&severity, "severity", "", "optional Symptom-severity CSV enabling weighted features")
	cmd.AddCommand(export)
	return cmd
}
