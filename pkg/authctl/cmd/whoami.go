package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/rkx-dev/authctl/pkg/authctl/client"
	"github.com/rkx-dev/authctl/pkg/authctl/output"
)

func newWhoamiCommand() *cobra.Command {
	var serverURL, outputFormat string

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the identity behind the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			format, err := output.ParseFormat(outputFormat)
			if err != nil {
				return err
			}

			store := rt.tokenStore()
			cred, ok := store.Load()
			if !ok {
				return errors.New("not logged in, run 'authctl login'")
			}
			if cred.Expired(time.Now()) {
				return errors.New("credential expired, run 'authctl login' again")
			}

			identity := rt.resolveIdentityRemote(cmd, rt.resolveServer(serverURL), cred.Token())
			if identity == nil {
				identity, err = client.IdentityFromToken(cred.AccessToken)
				if err != nil {
					return fmt.Errorf("could not resolve identity: %w", err)
				}
			}

			w := rt.Writer()
			if format == output.FormatText {
				_, _ = fmt.Fprintf(w, "Logged in as %s\n", identity.DisplayName())
				return nil
			}
			return output.WriteObject(w, format, identity)
		},
	}

	cmd.Flags().StringVar(&serverURL, "server-url", "", "Auth server base URL")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "", "Output format: text, json, yaml")

	return cmd
}

// resolveIdentityRemote asks the server who the token belongs to.
// Returns nil on any failure; the caller falls back to the token's own
// claims.
func (rt *runtimeState) resolveIdentityRemote(cmd *cobra.Command, server string, token *oauth2.Token) *client.Identity {
	if server == "" {
		return nil
	}
	httpClient, err := rt.httpClient()
	if err != nil {
		rt.logger.Debug("failed to build HTTP client", zap.Error(err))
		return nil
	}
	api, err := client.New(
		client.WithServer(server),
		client.WithHTTPClient(httpClient),
		client.WithTokenSource(oauth2.StaticTokenSource(token)),
	)
	if err != nil {
		rt.logger.Debug("failed to build API client", zap.Error(err))
		return nil
	}
	identity, err := api.Identity().Get(cmd.Context())
	if err != nil {
		rt.logger.Debug("remote identity lookup failed", zap.Error(err))
		return nil
	}
	return identity
}
