package cli

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/cardsync/internal/client/sync"
)

func (c *Cli) pullCmd() *cobra.Command {
	var opts sync.PullOptions
	cmd := &cobra.Command{
		Use:   "pull",
		Short: "Merge remote changes into the local contacts file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSync(cmd.Context(), !opts.Cached, func(svc *sync.Service) error {
				res, err := svc.Pull(cmd.Context(), opts)
				if err != nil {
					return err
				}
				c.io.Printf("Created %d, updated %d, skipped %d contact(s) locally\n",
					len(res.ToCreateLocally), len(res.ToUpdate)+len(res.Merged), len(res.Skipped))
				if len(res.Orphaned) > 0 {
					c.io.Printf("%d local contact(s) no longer exist remotely\n", len(res.Orphaned))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Cached, "cached", false, "use the last fetched remote snapshot")
	return cmd
}

func (c *Cli) pushCmd() *cobra.Command {
	var opts sync.PushOptions
	cmd := &cobra.Command{
		Use:   "push",
		Short: "Send local changes to the remote collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSync(cmd.Context(), true, func(svc *sync.Service) error {
				_, err := svc.Push(cmd.Context(), opts)
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&opts.Force, "force", false, "accept all updates without asking")
	cmd.Flags().BoolVar(&opts.Write, "write", false, "apply changes remotely; creations are accepted without asking")
	return cmd
}

func (c *Cli) syncGroupsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sync-groups",
		Short: "Update remote groups from the configured rules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withSync(cmd.Context(), true, func(svc *sync.Service) error {
				_, err := svc.SyncGroups(cmd.Context())
				return err
			})
		},
	}
}
