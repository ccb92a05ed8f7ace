package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newThemeCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "theme", Short: "Light/dark theme commands"}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the current theme",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := loadApp(cmd)
				if err != nil {
					return err
				}
				cmd.Println(a.store.Theme())
				return nil
			},
		},
		&cobra.Command{
			Use:   "toggle",
			Short: "Switch between light and dark",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := loadApp(cmd)
				if err != nil {
					return err
				}
				cmd.Printf("Theme set to %s.\n", a.store.ToggleTheme())
				return nil
			},
		},
	)
	return cmd
}

func newPreferenceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preference",
		Short: "Price vs. eco preference (0 = price, 100 = eco)",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the eco preference",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				a, err := loadApp(cmd)
				if err != nil {
					return err
				}
				cmd.Printf("%d\n", a.store.EcoPreference())
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <0-100>",
			Short: "Set the eco preference",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid preference %q: %w", args[0], err)
				}
				a, err := loadApp(cmd)
				if err != nil {
					return err
				}
				if err := a.shop.SetEcoPreference(v); err != nil {
					return err
				}
				cmd.Printf("Eco preference set to %d.\n", v)
				return nil
			},
		},
	)
	return cmd
}
