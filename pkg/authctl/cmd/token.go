package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/spf13/cobra"

	"github.com/rkx-dev/authctl/pkg/authctl/output"
)

func newTokenCommand() *cobra.Command {
	var showClaims bool

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print the stored access token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
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
			w := rt.Writer()
			if showClaims {
				parser := jwt.Parser{}
				claims := jwt.MapClaims{}
				if _, _, err := parser.ParseUnverified(cred.AccessToken, claims); err != nil {
					return fmt.Errorf("access token is not a JWT: %w", err)
				}
				return output.WriteObject(w, output.FormatJSON, claims)
			}
			_, _ = fmt.Fprintln(w, cred.AccessToken)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showClaims, "show-claims", false, "Print the token's unverified JWT claims instead")

	return cmd
}
