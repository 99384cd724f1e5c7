package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shilpkaar/marketplace-api/internal/favorites"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Manage your favorite products",
}

var favoritesListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show favorites, newest first",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesList,
}

var favoritesAddCmd = &cobra.Command{
	Use:   "add <product-id>",
	Short: "Add a product to favorites",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesAdd,
}

var favoritesRemoveCmd = &cobra.Command{
	Use:     "remove <product-id>",
	Aliases: []string{"rm"},
	Short:   "Remove a product from favorites",
	Args:    cobra.ExactArgs(1),
	RunE:    runFavoritesRemove,
}

var favoritesToggleCmd = &cobra.Command{
	Use:   "toggle <product-id>",
	Short: "Flip whether a product is a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesToggle,
}

var favoritesCheckCmd = &cobra.Command{
	Use:   "check <product-id>",
	Short: "Ask the server whether a product is a favorite",
	Args:  cobra.ExactArgs(1),
	RunE:  runFavoritesCheck,
}

var favoritesCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Print how many favorites you have",
	Args:  cobra.NoArgs,
	RunE:  runFavoritesCount,
}

func init() {
	favoritesCmd.AddCommand(
		favoritesListCmd,
		favoritesAddCmd,
		favoritesRemoveCmd,
		favoritesToggleCmd,
		favoritesCheckCmd,
		favoritesCountCmd,
	)
}

func runFavoritesList(cmd *cobra.Command, args []string) error {
	_, st, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if st.Phase() == favorites.PhaseError {
		return errors.New(st.Err())
	}
	list := st.Favorites()
	if len(list) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no favorites yet")
		return nil
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, f := range list {
		fmt.Fprintf(tw, "%s\t%s\t%.2f %s\t%s\n",
			f.ProductID, f.Product.Name, f.Product.Price, f.Product.Currency, f.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}

func runFavoritesAdd(cmd *cobra.Command, args []string) error {
	_, st, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Add(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%d favorites)\n", args[0], len(st.Favorites()))
	return nil
}

func runFavoritesRemove(cmd *cobra.Command, args []string) error {
	_, st, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.Remove(cmd.Context(), args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", args[0])
	return nil
}

func runFavoritesToggle(cmd *cobra.Command, args []string) error {
	_, st, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	on, err := st.Toggle(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), favoritedLabel(args[0], on))
	return nil
}

func runFavoritesCheck(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if _, err := a.restore(cmd.Context()); err != nil {
		return err
	}
	on, err := a.api.CheckFavorite(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("check favorite: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), favoritedLabel(args[0], on))
	return nil
}

func runFavoritesCount(cmd *cobra.Command, args []string) error {
	_, st, err := signedIn(cmd)
	if err != nil {
		return err
	}
	defer st.Close()

	fmt.Fprintln(cmd.OutOrStdout(), st.Count(cmd.Context()))
	return nil
}

func favoritedLabel(pid string, on bool) string {
	if on {
		return pid + " is a favorite"
	}
	return pid + " is not a favorite"
}
