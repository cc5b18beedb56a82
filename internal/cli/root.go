package cli

import (
	"github.com/spf13/cobra"

	"github.com/Skotchmaster/product_inventory/internal/config"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "inventory",
		Short:         "Product inventory client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.String("api-url", config.DefaultAPIURL, "inventory API base URL (INVENTORY_API_URL)")
	flags.String("token-db", "", "path of the session database (INVENTORY_TOKEN_DB)")
	flags.Duration("timeout", 0, "per request timeout (INVENTORY_TIMEOUT)")
	flags.String("log-level", "", "debug, info, warn or error (LOG_LEVEL)")
	_ = a.v.BindPFlag(config.KeyAPIURL, flags.Lookup("api-url"))
	_ = a.v.BindPFlag(config.KeyTokenDB, flags.Lookup("token-db"))
	_ = a.v.BindPFlag(config.KeyTimeout, flags.Lookup("timeout"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))

	root.AddCommand(
		newLoginCmd(a),
		newRegisterCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newProductsCmd(a),
	)
	return root
}
