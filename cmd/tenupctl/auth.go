package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tenup-padel-service/internal/auth"
	"tenup-padel-service/internal/credstore"
)

const defaultScope = "openid email profile"

func newAuthCmd(opts *rootOptions) *cobra.Command {
	var (
		authURL     string
		redirectURI string
		scope       string
	)

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Obtain a token bundle via the authorization-code flow",
		Long: `Walks the PKCE authorization-code flow by hand: prints the login URL,
waits for the pasted redirect URL, exchanges the code, and persists the
resulting token bundle for the server to use.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			verifier, challenge, err := auth.NewPKCE()
			if err != nil {
				return err
			}

			loginURL := auth.AuthCodeURL(authURL, opts.cfg.Tenup.ClientID, redirectURI, scope, challenge)
			fmt.Fprintln(cmd.OutOrStdout(), "Open this URL in a browser and log in:")
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "  "+loginURL)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprint(cmd.OutOrStdout(), "Paste the full redirect URL here: ")

			raw, err := readLine(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading redirect URL: %w", err)
			}
			code := auth.ParseCodeFromRedirect(strings.TrimSpace(raw))
			if code == "" {
				return fmt.Errorf("no authorization code found in %q", strings.TrimSpace(raw))
			}

			refresher := auth.NewRefresher(auth.Config{
				TokenURL: opts.cfg.Tenup.TokenURL,
				ClientID: opts.cfg.Tenup.ClientID,
			})
			bundle, err := refresher.Exchange(cmd.Context(), code, redirectURI, verifier, scope)
			if err != nil {
				return err
			}

			store := credstore.New(opts.dataDir)
			if err := store.SaveTokenBundle(bundle); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Token bundle saved to %s\n", opts.dataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&authURL, "auth-url", defaultAuthURL(opts.cfg.Tenup.TokenURL), "authorization endpoint")
	cmd.Flags().StringVar(&redirectURI, "redirect-uri", "https://tenup.fft.fr/", "redirect URI registered for the client")
	cmd.Flags().StringVar(&scope, "scope", defaultScope, "OAuth scopes to request")
	return cmd
}

// defaultAuthURL derives the authorization endpoint from the token
// endpoint; Keycloak keeps both under the same realm path.
func defaultAuthURL(tokenURL string) string {
	if strings.HasSuffix(tokenURL, "/token") {
		return strings.TrimSuffix(tokenURL, "/token") + "/auth"
	}
	return tokenURL
}

func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return line, nil
}
