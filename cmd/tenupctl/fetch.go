package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"tenup-padel-service/internal/auth"
	"tenup-padel-service/internal/config"
	"tenup-padel-service/internal/credstore"
	"tenup-padel-service/internal/providers"
	"tenup-padel-service/internal/providers/mobile"
)

const defaultFetchEndpoint = "competition/tournois"

func newFetchCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "fetch [endpoint] [key=value ...]",
		Short: "Run a one-shot authenticated query against the mobile API",
		Long: `Calls an API endpoint with the stored token bundle and prints the raw
JSON response. The endpoint defaults to the tournament listing; query
parameters are given as key=value arguments. A rejected access token is
refreshed once before giving up; run "tenupctl auth" first when no
bundle exists.

Examples:
  tenupctl fetch competition/tournois practice=PADEL latitude=48.85 longitude=2.35 distance=50
  tenupctl fetch licences/me`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			endpoint, params, err := parseFetchArgs(args)
			if err != nil {
				return err
			}

			store := credstore.New(opts.dataDir)
			bundle, ok := store.LoadTokenBundle()
			if !ok {
				return errors.New("no token bundle stored; run \"tenupctl auth\" first")
			}

			client := mobile.NewClient(mobile.Config{
				BaseURL:   opts.cfg.Tenup.APIBase,
				AppID:     opts.cfg.Tenup.ClientID,
				UserAgent: config.UserAgent,
			})

			body, err := client.FetchRaw(cmd.Context(), bundle.AccessToken, endpoint, params)
			if errors.Is(err, providers.ErrUnauthorized) && bundle.RefreshToken != "" {
				refresher := auth.NewRefresher(auth.Config{
					TokenURL: opts.cfg.Tenup.TokenURL,
					ClientID: opts.cfg.Tenup.ClientID,
				})
				bundle, err = refresher.Refresh(cmd.Context(), bundle.RefreshToken)
				if err != nil {
					return fmt.Errorf("refreshing rejected token: %w", err)
				}
				if err := store.SaveTokenBundle(bundle); err != nil {
					return err
				}
				body, err = client.FetchRaw(cmd.Context(), bundle.AccessToken, endpoint, params)
			}
			if err != nil {
				return err
			}

			return writeBody(cmd, body, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the JSON response to a file instead of stdout")
	return cmd
}

// parseFetchArgs splits the optional leading endpoint from the key=value
// query parameters; an argument containing "=" is always a parameter.
func parseFetchArgs(args []string) (string, url.Values, error) {
	endpoint := defaultFetchEndpoint
	params := url.Values{}

	for i, arg := range args {
		key, value, found := strings.Cut(arg, "=")
		if !found {
			if i != 0 {
				return "", nil, fmt.Errorf("expected key=value, got %q", arg)
			}
			endpoint = arg
			continue
		}
		if key == "" {
			return "", nil, fmt.Errorf("empty parameter name in %q", arg)
		}
		params.Add(key, value)
	}
	return endpoint, params, nil
}

func writeBody(cmd *cobra.Command, body []byte, output string) error {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, body, "", "  "); err == nil {
		body = pretty.Bytes()
	}
	if len(body) == 0 || body[len(body)-1] != '\n' {
		body = append(body, '\n')
	}

	if output == "" {
		_, err := cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(output, body, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes to %s\n", len(body), output)
	return nil
}
