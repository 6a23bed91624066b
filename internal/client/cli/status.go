package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func (c *Cli) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			c.io.Println("=== Status ===")
			c.io.Printf("Apple ID: %s\n", c.cfg.AppleID)

			s, err := c.newSession()
			if err != nil {
				return err
			}
			isAuth, err := s.authenticator.IsAuthenticated(ctx)
			if err != nil {
				return fmt.Errorf("failed to check authentication: %w", err)
			}
			if isAuth {
				c.io.Println("Session: Authenticated")
			} else {
				c.io.Println("Session: Not authenticated")
				c.io.Println("Run 'cardsync login' to authenticate.")
			}

			cache, err := c.openCache(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := cache.Close(); cerr != nil && err == nil {
					err = cerr
				}
			}()

			ts, err := cache.GetLastSyncTimestamp(ctx)
			if err != nil {
				return err
			}
			if ts == 0 {
				c.io.Println("Last sync: never")
			} else {
				c.io.Printf("Last sync: %s\n", time.Unix(ts, 0).Format(time.RFC3339))
			}
			if token, err := cache.GetLastSyncToken(ctx); err == nil && token != "" {
				c.io.Printf("Sync token: %s\n", token)
			}

			local, err := c.localStore()
			if err != nil {
				return err
			}
			contacts, err := local.Load(ctx)
			if err != nil {
				return err
			}
			c.io.Printf("Local contacts: %d (%s)\n", len(contacts), local.Path())
			return nil
		},
	}
}
