package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/ecoshopper/internal/tui"
)

// ErrNotTerminal is returned when an interactive command runs without a TTY.
var ErrNotTerminal = errors.New("browse needs an interactive terminal; use 'catalog list' and 'view' instead")

// NewBrowseCmd creates the interactive product browser command.
func NewBrowseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the catalog interactively",
		Long: `Opens a full-screen product browser. Low-scoring products show an eco
warning before their details; press y to continue or esc to go back.

Keys: enter details, a add to cart, +/- rate a score, / filter, t theme, q quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isTerminal(os.Stdin) || !tui.IsTTY() {
				return ErrNotTerminal
			}
			a, err := loadApp(cmd)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), a.shop)
		},
	}
}
