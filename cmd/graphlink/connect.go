package main

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/graphlink/graphlink-go/internal/export"
	"github.com/spf13/cobra"
)

var connectOutput string

var connectCmd = &cobra.Command{
	Use:   "connect <source-url> <target-url>...",
	Short: "Export the subgraph of chains connecting a source to one or more targets",
	Long: `Compute the shortest chains from a source profile to every target and
between the targets themselves, and export the union of those chains
as a JSON subgraph for the viewer. Pairs with no connection are left
out rather than failing the export.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runConnect,
}

func init() {
	connectCmd.Flags().StringVarP(&connectOutput, "output", "o", "", "output file (default: <source>_export.json in the data dir)")
}

func runConnect(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	session, err := loadQuerySession(ctx)
	if err != nil {
		return err
	}

	result, err := session.Connect(args[0], args[1:])
	if err != nil {
		return err
	}

	snap := session.Snapshot()
	sub := export.BuildSubgraph(snap, result.Union, result.SourceID, result.TargetIDs)

	outPath := connectOutput
	if outPath == "" {
		outPath = filepath.Join(cfg.DataDir, defaultExportName(snap.Name(result.SourceID)))
	}
	if err := sub.WriteJSON(outPath); err != nil {
		return err
	}

	fmt.Printf("Exported %d nodes and %d edges to %s\n", len(sub.Nodes), len(sub.Edges), outPath)
	return nil
}

var exportNameClean = regexp.MustCompile(`[^a-zA-Z0-9]`)

// defaultExportName derives a filename from the source's first name,
// e.g. "Ann Example" -> "ann_export.json".
func defaultExportName(sourceName string) string {
	first := sourceName
	if fields := strings.Fields(sourceName); len(fields) > 0 {
		first = fields[0]
	}
	first = strings.ToLower(exportNameClean.ReplaceAllString(first, ""))
	if first == "" {
		first = "graphlink"
	}
	return first + "_export.json"
}
