package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rkx-dev/authctl/pkg/authctl/auth"
)

func newLoginCommand() *cobra.Command {
	var serverURL, clientID, scope string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in via the device authorization flow",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			w := rt.Writer()

			server := rt.resolveServer(serverURL)
			if server == "" {
				return errors.New("server URL is required (--server-url, AUTHCTL_SERVER, or config file)")
			}
			resolvedClientID := rt.resolveClientID(clientID)
			if resolvedClientID == "" {
				return errors.New("client ID is required (--client-id, AUTHCTL_CLIENT_ID, or config file)")
			}

			store := rt.tokenStore()
			if cred, ok := store.Load(); ok && !cred.Expired(time.Now()) {
				again, err := rt.confirm("Already logged in. Log in again?", false)
				if err != nil {
					return err
				}
				if !again {
					return errors.New("login cancelled")
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			httpClient, err := rt.httpClient()
			if err != nil {
				return err
			}
			codeURL, tokenURL, err := auth.EndpointURLs(server)
			if err != nil {
				return err
			}

			initiator := &auth.Initiator{
				Client:   httpClient,
				Endpoint: codeURL,
				ClientID: resolvedClientID,
			}
			devAuth, err := initiator.RequestAuthorization(ctx, rt.resolveScope(scope))
			if err != nil {
				return fmt.Errorf("failed to request device authorization: %w", err)
			}

			_, _ = fmt.Fprintln(w, "Device authorization required")
			_, _ = fmt.Fprintf(w, "Visit %s and enter code: %s\n", devAuth.VerificationURI, devAuth.UserCode)
			if !rt.browserDisabled() && !rt.nonInteractive {
				if open, _ := rt.confirm("Open the browser?", true); open {
					if err := auth.OpenBrowser(devAuth.VerificationURL()); err != nil {
						rt.logger.Debug("failed to open browser", zap.Error(err))
					}
				}
			}
			if devAuth.ExpiresIn > 0 {
				_, _ = fmt.Fprintf(w, "Waiting for authorization (expires in %d minutes)...\n", devAuth.ExpiresIn/60)
			} else {
				_, _ = fmt.Fprintln(w, "Waiting for authorization...")
			}

			poller := &auth.Poller{
				Client:   httpClient,
				TokenURL: tokenURL,
				ClientID: resolvedClientID,
				Logger:   rt.logger,
				Progress: func(int) { _, _ = fmt.Fprint(w, ".") },
			}
			tokenResp, err := poller.Wait(ctx, devAuth.DeviceCode, devAuth.PollInterval(), devAuth.Deadline(time.Now()))
			_, _ = fmt.Fprintln(w)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrAccessDenied):
					return errors.New("authorization request was denied")
				case errors.Is(err, auth.ErrDeviceCodeExpired):
					return errors.New("device code expired, run 'authctl login' again")
				case errors.Is(err, context.Canceled):
					return errors.New("login cancelled")
				}
				return err
			}

			cred, saveErr := store.Save(tokenResp)
			if saveErr != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v (you may need to log in again next time)\n", saveErr)
			}
			if cred.ExpiresAt.IsZero() {
				_, _ = fmt.Fprintln(w, "Logged in.")
			} else {
				_, _ = fmt.Fprintf(w, "Logged in. Token expires at %s\n", cred.ExpiresAt.UTC().Format(time.RFC3339))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&serverURL, "server-url", "", "Auth server base URL")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth client ID")
	cmd.Flags().StringVar(&scope, "scope", "", "Requested scopes (space-delimited)")

	return cmd
}
