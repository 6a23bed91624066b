package cli

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"
)

func (c *Cli) listCmd() *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List local contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			local, err := c.localStore()
			if err != nil {
				return err
			}
			contacts, err := local.Load(cmd.Context())
			if err != nil {
				return err
			}

			shown := 0
			for i := range contacts {
				ct := &contacts[i]
				if tag != "" && !slices.Contains(ct.Tags, tag) {
					continue
				}
				line := ct.DisplayName()
				if len(ct.Tags) > 0 {
					line += " [" + strings.Join(ct.Tags, ", ") + "]"
				}
				if ct.RemoteUUID().IsZero() {
					line += " (not synced)"
				}
				c.io.Println(line)
				shown++
			}
			c.io.Printf("Total: %d contact(s)\n", shown)
			return nil
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "show only contacts with this tag")
	return cmd
}
