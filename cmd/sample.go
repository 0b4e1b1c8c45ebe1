package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bibleaquifer/sitegen/internal/config"
	"github.com/bibleaquifer/sitegen/internal/site"
)

// sampleCmd represents the sample command
var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Build the site from embedded sample data",
	Long: `Build the full static site from embedded sample data instead of the
live forge. No token or network access is needed; every render and write
stage is the same as a live build, so the output is a faithful preview of
the real site.`,
	RunE: runSampleCommand,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVarP(&buildOutputDir, "output-dir", "o", "", "directory to write the generated site to")
}

func runSampleCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if buildOutputDir != "" {
		cfg.Output.Dir = buildOutputDir
	}

	logger := newRootLogger()

	pipeline := site.NewPipeline(site.Options{
		Source:       site.NewSampleSource(),
		OutputDir:    cfg.Output.Dir,
		SnapshotName: cfg.Output.Snapshot,
		OrgName:      cfg.Forge.Org,
		Logger:       logger,
	})

	start := time.Now()
	if err := pipeline.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Sample build complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Println("Note: these files use sample data. Run 'sitegen build' for live data.")
	return nil
}
