package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newLogoutCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove the stored credential",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := getRuntime(cmd)
			if err != nil {
				return err
			}
			w := rt.Writer()

			store := rt.tokenStore()
			if _, ok := store.Load(); !ok {
				_, _ = fmt.Fprintln(w, "Not logged in")
				return nil
			}
			if !force {
				confirmed, err := rt.confirm("Remove the stored credential?", true)
				if err != nil {
					return err
				}
				if !confirmed {
					return errors.New("logout cancelled")
				}
			}
			if err := store.Clear(); err != nil && !errors.Is(err, os.ErrNotExist) {
				// The credential may still exist; warn but exit zero.
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
				return nil
			}
			_, _ = fmt.Fprintln(w, "Logged out")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")

	return cmd
}
