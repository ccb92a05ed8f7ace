package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/ecoscore"
	"github.com/rshade/ecoshopper/internal/logging"
	"github.com/rshade/ecoshopper/internal/shop"
)

type viewParams struct {
	force  bool
	output string
}

// NewViewCmd creates the view command. Viewing a product counts toward the
// shopper's stats; low-scoring products ask for confirmation first.
func NewViewCmd() *cobra.Command {
	var params viewParams

	cmd := &cobra.Command{
		Use:   "view <product-id>",
		Short: "Show a product's details and earn green points",
		Long: `Shows the product's EcoScore breakdown, brand rating, insight and
greener alternatives, and records the view in your session.

Products scoring below 50 show an eco warning first and ask to continue.
Declining leaves your stats untouched. --force skips the question.`,
		Example: `  ecoshopper view 1
  ecoshopper view 3 --force
  ecoshopper view 2 --output json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args[0], params)
		},
	}

	cmd.Flags().BoolVarP(&params.force, "force", "f", false, "skip the eco warning confirmation")
	cmd.Flags().StringVarP(&params.output, "output", "o", outputTable, "Output format: table, json, or ndjson")

	return cmd
}

func runView(cmd *cobra.Command, id string, params viewParams) error {
	if err := validateOutputFormat(params.output); err != nil {
		return err
	}

	ctx := cmd.Context()
	log := logging.FromContext(ctx)

	a, err := loadApp(cmd)
	if err != nil {
		return err
	}

	preview, err := a.shop.Preview(id)
	if err != nil {
		return err
	}

	// Structured output never prompts.
	if preview.RequiresDangerAck && !params.force && params.output == outputTable {
		renderDangers(cmd.ErrOrStderr(), preview.Result.DangerReasons)
		renderAlternatives(cmd.ErrOrStderr(), preview)
		cmd.PrintErrln()
		if !confirmPrompt(cmd, "Show details anyway? [y/N]: ") {
			cmd.PrintErrln("View cancelled.")
			log.Info().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "view").
				Str("product_id", id).
				Msg("danger warning declined")
			return nil
		}
	}

	view, err := a.shop.View(id)
	if err != nil {
		return err
	}

	switch params.output {
	case outputJSON:
		return writeJSON(cmd.OutOrStdout(), view)
	case outputNDJSON:
		return writeNDJSON(cmd.OutOrStdout(), view)
	}

	renderProductView(cmd.OutOrStdout(), view)
	if view.Qualified {
		cmd.Printf("\n🌿 +%d green points\n", a.shop.Policy().Points)
	}
	return nil
}

func renderProductView(w io.Writer, v shop.ProductView) {
	fmt.Fprintf(w, "%s  ($%.2f)\n", v.Product.Name, v.Product.Price)
	fmt.Fprintf(w, "%s\n", v.Product.Description)
	fmt.Fprintf(w, "Brand: %s (sustainability %d/100)", v.Product.Brand, v.BrandScore)
	if v.Product.Category != "" {
		fmt.Fprintf(w, "  Category: %s", v.Product.Category)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w)
	renderResult(w, v.Result)
	if v.Result.Level == ecoscore.LevelLow {
		fmt.Fprintln(w)
		renderDangers(w, v.Result.DangerReasons)
	}
	renderAlternatives(w, v)
}

func renderAlternatives(w io.Writer, v shop.ProductView) {
	if len(v.Alternatives) == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Greener alternatives:")
	for _, alt := range v.Alternatives {
		fmt.Fprintf(w, "  - %s  EcoScore %d  $%.2f\n", alt.Name, alt.EcoScore, alt.Price)
	}
}
