package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/session"
)

type feedbackParams struct {
	vote    string
	comment string
	images  []string
}

func newFeedbackCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "feedback", Short: "Rate products' EcoScores"}
	cmd.AddCommand(newFeedbackSubmitCmd(), newFeedbackShowCmd())
	return cmd
}

func newFeedbackSubmitCmd() *cobra.Command {
	var params feedbackParams

	cmd := &cobra.Command{
		Use:   "submit <product-id>",
		Short: "Agree or disagree with a product's EcoScore",
		Long: `Records your verdict on a product's EcoScore. A comment or at least one
proof image (up to 3) is required. Submitting again replaces your earlier
feedback for the product.`,
		Example: `  ecoshopper feedback submit 3 --vote down --comment "These are recyclable where I live"
  ecoshopper feedback submit 1 --vote up --image https://example.com/proof.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			vote, err := session.ParseVote(params.vote)
			if err != nil {
				return err
			}
			if _, err := a.shop.SubmitFeedback(args[0], vote, params.comment, params.images); err != nil {
				return err
			}
			if vote == session.VoteUp {
				cmd.Println("Thanks for your feedback! 👍")
			} else {
				cmd.Println("Thanks for your feedback! 👎")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&params.vote, "vote", "", "up or down (required)")
	cmd.Flags().StringVarP(&params.comment, "comment", "c", "", "why you agree or disagree")
	cmd.Flags().StringArrayVar(&params.images, "image", nil, "proof image URL or data URI (repeatable, max 3)")
	_ = cmd.MarkFlagRequired("vote")

	return cmd
}

func newFeedbackShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [product-id]",
		Short: "Show your feedback for one or every product",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}

			var list []session.Feedback
			if len(args) == 1 {
				f, ok := a.shop.Feedback(args[0])
				if !ok {
					cmd.Printf("No feedback for %s.\n", args[0])
					return nil
				}
				list = []session.Feedback{f}
			} else {
				list = a.store.Feedbacks()
			}

			switch output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), list)
			case outputNDJSON:
				return writeNDJSON(cmd.OutOrStdout(), list...)
			}

			if len(list) == 0 {
				cmd.Println("No feedback yet.")
				return nil
			}
			for _, f := range list {
				cmd.Println(formatFeedback(f))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, or ndjson")
	return cmd
}

func formatFeedback(f session.Feedback) string {
	icon := "👍"
	if f.Vote == session.VoteDown {
		icon = "👎"
	}
	s := fmt.Sprintf("%s %s  %s", f.ProductID, icon, time.UnixMilli(f.Timestamp).UTC().Format(time.RFC3339))
	if f.Comment != "" {
		s += fmt.Sprintf("  %q", f.Comment)
	}
	if len(f.Images) > 0 {
		s += fmt.Sprintf("  (%d images)", len(f.Images))
	}
	return s
}
