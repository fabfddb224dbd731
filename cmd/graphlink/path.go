package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/graphlink/graphlink-go/internal/graph"
	"github.com/spf13/cobra"
)

var pathCmd = &cobra.Command{
	Use:   "path <source-url> <target-url>",
	Short: "Find the shortest introduction chain between two profiles",
	Args:  cobra.ExactArgs(2),
	RunE:  runPath,
}

var pathsK int

var pathsCmd = &cobra.Command{
	Use:   "paths <source-url> <target-url>",
	Short: "Find the top-k alternative introduction chains between two profiles",
	Long: `Enumerate the shortest simple introduction chains between two
profiles in non-decreasing length order, stopping after k results.
Fewer than k chains may exist; that is reported, not an error.`,
	Args: cobra.ExactArgs(2),
	RunE: runPaths,
}

func init() {
	pathsCmd.Flags().IntVarP(&pathsK, "count", "k", 3, "number of alternative chains")
}

func runPath(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	session, err := loadQuerySession(ctx)
	if err != nil {
		return err
	}

	path, err := session.ShortestPath(args[0], args[1])
	if errors.Is(err, graph.ErrNoPath) {
		fmt.Println("No path found between these two people in the network.")
		return nil
	}
	if err != nil {
		return err
	}

	printPath(session.Snapshot(), path)
	fmt.Printf("Path requires %d introductions.\n", len(path)-1)
	return nil
}

func runPaths(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	session, err := loadQuerySession(ctx)
	if err != nil {
		return err
	}

	paths, err := session.KShortestPaths(ctx, args[0], args[1], pathsK)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("No path found between these two people in the network.")
		return nil
	}

	for i, path := range paths {
		fmt.Printf("Chain %d (%d introductions):\n", i+1, len(path)-1)
		printPath(session.Snapshot(), path)
	}
	if len(paths) < pathsK {
		fmt.Printf("Only %d simple chain(s) exist.\n", len(paths))
	}
	return nil
}

func printPath(snap *graph.Snapshot, path []int64) {
	for i, id := range path {
		fmt.Printf("  %d: %s\n", i, describe(snap, id))
	}
}
