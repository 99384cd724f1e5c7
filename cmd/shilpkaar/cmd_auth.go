package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shilpkaar/marketplace-api/internal/sysutil"
)

var (
	authEmail    string
	authPassword string
	authName     string
	authRole     string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account and sign in",
	Long: `Creates a customer (default) or artisan account and stores the issued token.

Example:
  shilpkaar register --email meera@example.com --name Meera --password ...`,
	Args: cobra.NoArgs,
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the token",
	Long: `Exchanges email and password for a bearer token and stores it.
The password may also come from $SHILPKAAR_PASSWORD.`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the stored token",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (default $SHILPKAAR_PASSWORD)")
		_ = c.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&authName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&authRole, "role", "customer", "customer or artisan")
}

func password() (string, error) {
	pw := sysutil.FirstNonEmpty(authPassword, os.Getenv("SHILPKAAR_PASSWORD"))
	if pw == "" {
		return "", errors.New("a password is required (--password or $SHILPKAAR_PASSWORD)")
	}
	return pw, nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	pw, err := password()
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	res, err := a.api.Register(cmd.Context(), strings.TrimSpace(authEmail), pw, authName, authRole)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}
	if err := sysutil.WriteToken(a.tokenPath, res.Token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "registered %s (%s)\n", res.User.Email, res.User.Role)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	pw, err := password()
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	u, err := a.sess.Login(cmd.Context(), a.api, strings.TrimSpace(authEmail), pw)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if err := sysutil.WriteToken(a.tokenPath, a.sess.Token()); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "logged in as %s (%s)\n", u.Email, u.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	path, err := sysutil.TokenPath(tokenFile)
	if err != nil {
		return err
	}
	if err := sysutil.WriteToken(path, ""); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "logged out")
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	u, err := a.restore(cmd.Context())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", u.ID, u.Email, u.Role)
	return nil
}
