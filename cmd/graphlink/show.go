package main

import (
	"fmt"

	"github.com/graphlink/graphlink-go/internal/exclusion"
	"github.com/graphlink/graphlink-go/internal/identity"
	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var showOpen bool

var showCmd = &cobra.Command{
	Use:   "show <profile-url>",
	Short: "Show what the graph knows about one profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := identity.Normalize(args[0])
		if err != nil {
			return err
		}

		snap, err := loadSnapshot(cmd.Context())
		if err != nil {
			return err
		}

		id, ok := snap.IDForKey(key)
		if !ok {
			return fmt.Errorf("no profile in the graph for %s", key)
		}

		name := snap.Name(id)
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Printf("Name:    %s\n", name)
		fmt.Printf("URL:     %s\n", key)
		fmt.Printf("Friends: %d\n", snap.Degree(id))

		excluded := exclusion.Load(cfg.Exclusion.File)
		if excluded.Contains(key) {
			fmt.Println("Status:  excluded from queries")
		}

		if showOpen {
			if err := browser.OpenURL(key); err != nil {
				logger.WithError(err).Warn("Failed to open browser")
			}
		}
		return nil
	},
}

func init() {
	showCmd.Flags().BoolVar(&showOpen, "open", false, "open the profile in a browser")
}
