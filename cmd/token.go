package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/vzahanych/weatherkit/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		ttl    time.Duration
		verify bool
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print a signed WeatherKit developer token",
		Long: `Sign an ES256 developer token with the configured team, service and key.
The lifetime defaults to apple.token_ttl.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if ttl == 0 {
				ttl = config.GetConfig().Apple.TokenLifetime()
			}

			svc, err := newWeatherService()
			if err != nil {
				return err
			}

			token, err := svc.TokenWithTTL(ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)

			if !verify {
				return nil
			}
			claims, err := svc.VerifyToken(token)
			if err != nil {
				return err
			}
			return writeJSON(cmd, claims)
		},
	}

	cmd.Flags().DurationVar(&ttl, "ttl", 0, "token lifetime (e.g. 30m, 1h)")
	cmd.Flags().BoolVar(&verify, "verify", false, "verify the token against the signing key and print its claims")

	return cmd
}
