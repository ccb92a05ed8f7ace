package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/ecoscore"
)

type scoreParams struct {
	name          string
	description   string
	carbon        float64
	recyclability int
	output        string
}

// NewScoreCmd creates the score command. It scores a catalog product by id or
// free text given with --name and --description. Scoring never touches the
// session.
func NewScoreCmd() *cobra.Command {
	var params scoreParams

	cmd := &cobra.Command{
		Use:   "score [product-id]",
		Short: "Compute the EcoScore of a product or free text",
		Long: `Computes the EcoScore, recyclability and carbon footprint estimate.

With a product id the catalog entry is scored. Otherwise --name and/or
--description are scored. --carbon and --recyclability seed the estimates the
way catalog fields do.`,
		Example: `  # Score a catalog product
  ecoshopper score 3

  # Score free text as JSON
  ecoshopper score --name "Tote" --description "organic cotton, reusable" --output json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScore(cmd, args, params)
		},
	}

	cmd.Flags().StringVar(&params.name, "name", "", "product name to score")
	cmd.Flags().StringVar(&params.description, "description", "", "product description to score")
	cmd.Flags().Float64Var(&params.carbon, "carbon", 0, "seed carbon footprint in kg CO2")
	cmd.Flags().IntVar(&params.recyclability, "recyclability", 0, "seed recyclability rating (0-100)")
	cmd.Flags().StringVarP(&params.output, "output", "o", outputTable, "Output format: table, json, or ndjson")

	return cmd
}

func runScore(cmd *cobra.Command, args []string, params scoreParams) error {
	if err := validateOutputFormat(params.output); err != nil {
		return err
	}

	var (
		result ecoscore.Result
		label  string
	)

	if len(args) == 1 {
		a, err := loadApp(cmd)
		if err != nil {
			return err
		}
		sp, err := a.shop.Score(args[0])
		if err != nil {
			return err
		}
		result, label = sp.Result, sp.Name
	} else {
		if params.name == "" && params.description == "" {
			return errors.New("provide a product id or --name/--description")
		}
		in := ecoscore.Input{Name: params.name, Description: params.description}
		if cmd.Flags().Changed("carbon") {
			in.CarbonFootprint = &params.carbon
		}
		if cmd.Flags().Changed("recyclability") {
			in.RecyclabilityRating = &params.recyclability
		}
		result, label = ecoscore.ScoreInput(in), params.name
	}

	switch params.output {
	case outputJSON:
		return writeJSON(cmd.OutOrStdout(), result)
	case outputNDJSON:
		return writeNDJSON(cmd.OutOrStdout(), result)
	}

	w := cmd.OutOrStdout()
	if label != "" {
		cmd.Printf("%s\n\n", label)
	}
	renderResult(w, result)
	if len(result.DangerReasons) > 0 {
		cmd.Println()
		renderDangers(w, result.DangerReasons)
	}
	return nil
}
