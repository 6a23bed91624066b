package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (c *Cli) logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.newSession()
			if err != nil {
				return err
			}
			if err := s.authenticator.Logout(cmd.Context()); err != nil {
				return fmt.Errorf("logout failed: %w", err)
			}

			c.io.Println("✓ Logout successful!")
			c.io.Println("Your local session has been deleted.")
			return nil
		},
	}
}
