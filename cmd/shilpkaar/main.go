// Command shilpkaar is a terminal client for the ShilpkaarAI marketplace.
//
// It signs in against the API, keeps the bearer token in a file under the
// user config dir, and manages favorites through the client favorites store.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/shilpkaar/marketplace-api/internal/config"
	"github.com/shilpkaar/marketplace-api/internal/observability"
	"github.com/shilpkaar/marketplace-api/internal/sysutil"
)

var (
	// Global flags
	apiURL    string
	tokenFile string
	timeout   time.Duration
	verbose   bool

	// Set by PersistentPreRunE
	clientCfg config.ClientConfig
	logger    = zerolog.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "shilpkaar",
	Short: "ShilpkaarAI marketplace client",
	Long: `shilpkaar talks to the ShilpkaarAI marketplace API.

Sign in once with "shilpkaar login"; later commands reuse the stored token.
Settings are read from the environment (SHILPKAAR_API_URL, SHILPKAAR_TOKEN,
SHILPKAAR_TIMEOUT, SHILPKAAR_PAGE_SIZE) and from a .env file if present.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		cfg, err := config.LoadClient()
		if err != nil {
			return err
		}
		if apiURL != "" {
			cfg.APIURL = apiURL
		}
		if timeout > 0 {
			cfg.Timeout = timeout
		}
		level := cfg.LogLevel
		if verbose {
			level = "debug"
		}
		logger = observability.SetupLogger(cmd.ErrOrStderr(), observability.LogOptions{
			Level:  level,
			Pretty: true,
		})
		clientCfg = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL including /api/v1 (default $SHILPKAAR_API_URL)")
	rootCmd.PersistentFlags().StringVar(&tokenFile, "token-file", "", "Where the bearer token is kept (default $SHILPKAAR_TOKEN_FILE or the user config dir)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "Per-request timeout (default $SHILPKAAR_TIMEOUT or 10s)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(registerCmd, loginCmd, logoutCmd, whoamiCmd)
	rootCmd.AddCommand(productsCmd)
	rootCmd.AddCommand(favoritesCmd)
}

func main() {
	ctx, stop := sysutil.SignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
