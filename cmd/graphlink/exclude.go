package main

import (
	"fmt"

	"github.com/graphlink/graphlink-go/internal/exclusion"
	"github.com/graphlink/graphlink-go/internal/identity"
	"github.com/spf13/cobra"
)

var excludeCmd = &cobra.Command{
	Use:   "exclude",
	Short: "Manage the exclusion list of profiles hidden from all queries",
	Long: `Manage the exclusion list. Excluded profiles stay in the database but
are removed from every query: they cannot be endpoints and never
appear inside a chain or subgraph. Edits take effect on the next
query; every change is saved atomically.`,
}

var excludeAddCmd = &cobra.Command{
	Use:   "add <profile-url>",
	Short: "Add a profile to the exclusion list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := identity.Normalize(args[0])
		if err != nil {
			return err
		}

		set := exclusion.Load(cfg.Exclusion.File)
		if !set.Add(key) {
			fmt.Printf("%s is already excluded.\n", key)
			return nil
		}
		if err := set.Save(cfg.Exclusion.File); err != nil {
			return err
		}
		fmt.Printf("Excluded %s (%d total).\n", key, set.Len())
		return nil
	},
}

var excludeRemoveCmd = &cobra.Command{
	Use:   "remove <profile-url>",
	Short: "Remove a profile from the exclusion list",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := identity.Normalize(args[0])
		if err != nil {
			return err
		}

		set := exclusion.Load(cfg.Exclusion.File)
		if !set.Remove(key) {
			fmt.Printf("%s was not excluded.\n", key)
			return nil
		}
		if err := set.Save(cfg.Exclusion.File); err != nil {
			return err
		}
		fmt.Printf("Removed %s (%d remaining).\n", key, set.Len())
		return nil
	},
}

var excludeListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the excluded profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		set := exclusion.Load(cfg.Exclusion.File)
		if set.Len() == 0 {
			fmt.Println("The exclusion list is empty.")
			return nil
		}
		for i, key := range set.Keys() {
			fmt.Printf("%3d: %s\n", i+1, key)
		}
		return nil
	},
}

func init() {
	excludeCmd.AddCommand(excludeAddCmd)
	excludeCmd.AddCommand(excludeRemoveCmd)
	excludeCmd.AddCommand(excludeListCmd)
}
