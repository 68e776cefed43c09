package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"yashubustudio/symptomcheck/symptoms"
)

func newPredictCmd(a *app) *cobra.Command {
	var text string
	cmd := &cobra.Command{
		Use:   "predict [symptom...]",
		Short: "Predict a disease from a symptom list or free text",
		Example: `  symptomcheck predict -c symptomcheck.yaml itching skin_rash
  symptomcheck predict -c symptomcheck.yaml --text "high fever and a bad cough"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text = strings.TrimSpace(text)
			if text == "" && len(args) == 0 {
				return errors.New("give symptoms as arguments or --text")
			}
			p, err := a.openPredictor(cmd.Context())
			if err != nil {
				return err
			}
			defer p.Close()

			var res symptoms.PredictionResult
			if text != "" {
				res, err = p.PredictText(cmd.Context(), text)
			} else {
				res, err = p.Predict(cmd.Context(), args)
			}
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
	cmd.Flags().StringVarP(&text, "text", "t", "", "free text description of the symptoms")
	return cmd
}

func newExtractCmd(a *app) *cobra.Command {
	var explain bool
	cmd := &cobra.Command{
		Use:   "extract <text>",
		Short: "List the vocabulary symptoms found in free text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, ex, err := a.openExtractor()
			if err != nil {
				return err
			}
			text := strings.Join(args, " ")
			if explain {
				return printJSON(cmd.OutOrStdout(), ex.Matches(text))
			}
			found := ex.Extract(text)
			a.metrics.AddExtracted(len(found))
			return printJSON(cmd.OutOrStdout(), found)
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "show the rule, offset and text of each match")
	return cmd
}

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <symptom...>",
		Short: "Split symptoms into known and unknown tokens",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vocab, _, err := a.openExtractor()
			if err != nil {
				return err
			}
			res := symptoms.NewValidator(vocab).Validate(args)
			a.metrics.AddInvalid(len(res.Invalid))
			return printJSON(cmd.OutOrStdout(), res)
		},
	}
}
