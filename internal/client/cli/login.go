package cli

import (
	"github.com/spf13/cobra"
)

func (c *Cli) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in and save the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := c.newSession()
			if err != nil {
				return err
			}
			if err := c.login(cmd.Context(), s); err != nil {
				return err
			}

			c.io.Println("✓ Login successful!")
			if account := s.client.Account(); account != nil && account.DSInfo.FullName != "" {
				c.io.Printf("Account: %s\n", account.DSInfo.FullName)
			}
			c.io.Println("Your session has been saved.")
			return nil
		},
	}
}
