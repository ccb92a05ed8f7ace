package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/logging"
	"github.com/rshade/ecoshopper/internal/shop"
)

func newCartCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "cart", Short: "Shopping cart commands"}
	cmd.AddCommand(
		newCartShowCmd(), newCartAddCmd(), newCartRemoveCmd(),
		newCartSetCmd(), newCartClearCmd(),
	)
	return cmd
}

func newCartShowCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cart with EcoScores and totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			summary := a.shop.Cart()
			switch output {
			case outputJSON:
				return writeJSON(cmd.OutOrStdout(), summary)
			case outputNDJSON:
				return writeNDJSON(cmd.OutOrStdout(), summary.Lines...)
			default:
				return renderCart(cmd.OutOrStdout(), summary)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "Output format: table, json, or ndjson")
	return cmd
}

func renderCart(w io.Writer, summary shop.CartSummary) error {
	if len(summary.Lines) == 0 {
		fmt.Fprintln(w, "Your cart is empty.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tQTY\tPRICE\tSUBTOTAL\tSCORE")
	fmt.Fprintln(tw, "--\t----\t---\t-----\t--------\t-----")
	for _, line := range summary.Lines {
		fmt.Fprintf(tw, "%s\t%s\t%d\t$%.2f\t$%.2f\t%d\n",
			line.ID, truncate(line.Name, maxNameLen), line.Quantity, line.Price, line.LineTotal, line.Score)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flushing table writer: %w", err)
	}

	fmt.Fprintf(w, "\nTotal: $%.2f • %d items\n", summary.Total, summary.Items)
	return nil
}

func newCartAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <product-id>",
		Short: "Add one unit of a product to the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			sp, err := a.shop.AddToCart(args[0])
			if err != nil {
				return err
			}

			cmd.Printf("%s added to cart! 🛒\n", sp.Name)
			if a.shop.Policy().Qualifies(sp.Result.Score) {
				cmd.Println("🌿 Great eco-friendly choice!")
			}

			logging.FromContext(ctx).Info().Ctx(ctx).
				Str("component", "cli").
				Str("operation", "cart_add").
				Str("product_id", sp.ID).
				Msg("added to cart")
			return nil
		},
	}
}

func newCartRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <product-id>",
		Short: "Remove a product from the cart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if !a.shop.Remove(args[0]) {
				cmd.Printf("%s is not in the cart.\n", args[0])
				return nil
			}
			cmd.Printf("Removed %s from cart.\n", args[0])
			return nil
		},
	}
}

func newCartSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <product-id> <quantity>",
		Short: "Set a cart line's quantity (0 removes it)",
		Args:  cobra.ExactArgs(2), //nolint:mnd // id and quantity
		RunE: func(cmd *cobra.Command, args []string) error {
			qty, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid quantity %q: %w", args[1], err)
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			switch {
			case !a.shop.SetQuantity(args[0], qty):
				cmd.Printf("%s is not in the cart.\n", args[0])
			case qty <= 0:
				cmd.Printf("Removed %s from cart.\n", args[0])
			default:
				cmd.Printf("Set %s quantity to %d.\n", args[0], qty)
			}
			return nil
		},
	}
}

func newCartClearCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Empty the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			if !force && !confirmPrompt(cmd, "Empty your cart? [y/N]: ") {
				cmd.PrintErrln("Clear cancelled.")
				return nil
			}
			a.shop.ClearCart()
			cmd.Println("Cart cleared.")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
