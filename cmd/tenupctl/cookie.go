package main

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"tenup-padel-service/internal/config"
	"tenup-padel-service/internal/credstore"
	"tenup-padel-service/internal/providers/headless"
	"tenup-padel-service/internal/providers/tenupweb"
)

func newRefreshCookieCmd(opts *rootOptions) *cobra.Command {
	var show bool

	cmd := &cobra.Command{
		Use:   "refresh-cookie",
		Short: "Refresh the web session cookies with a headless browser",
		Long: `Drives a headless browser through the tournament search page so the
bot wall issues fresh session cookies, then persists the assembled
Cookie header for the server's web tier.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store := credstore.New(opts.dataDir)
			refresher := headless.NewRefresher(headless.Config{
				TargetURL:    opts.cfg.Tenup.WebBase + tenupweb.SearchPath,
				CookieDomain: hostOf(opts.cfg.Tenup.WebBase),
				UserAgent:    config.UserAgent,
				Disabled:     opts.cfg.Headless.Disabled,
				Logger:       newLogger(),
			}, store)

			header, err := refresher.RefreshCookies(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cookie header saved to %s\n", opts.dataDir)
			if show {
				fmt.Fprintln(cmd.OutOrStdout(), header)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&show, "show", false, "print the refreshed Cookie header")
	return cmd
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return u.Hostname()
}
