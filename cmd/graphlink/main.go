package main

import (
	"fmt"
	"os"

	"github.com/graphlink/graphlink-go/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "dev"
	BuildTime = "unknown"

	cfgFile string
	verbose bool
	logger  *logrus.Logger
	cfg     *config.Config
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "graphlink",
	Short: "GraphLink - resolve friend-list exports into one social graph and find introduction chains",
	Long: `GraphLink merges independently collected friend-list exports into a
single deduplicated identity graph, then answers path queries over it:
shortest introduction chain, ranked alternative chains, and
"who connects these people" subgraph exports.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Initialize logger
		logger = logrus.New()
		if verbose {
			logger.SetLevel(logrus.DebugLevel)
		} else {
			logger.SetLevel(logrus.InfoLevel)
		}

		// Load configuration
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			logger.WithError(err).Warn("Failed to load config, using defaults")
			cfg = config.Default()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: .graphlink/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.SetVersionTemplate(`GraphLink {{.Version}}
Build time: ` + BuildTime + `
`)

	// Add subcommands
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(pathCmd)
	rootCmd.AddCommand(pathsCmd)
	rootCmd.AddCommand(connectCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(excludeCmd)
	rootCmd.AddCommand(showCmd)
}
