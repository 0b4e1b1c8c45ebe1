package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bibleaquifer/sitegen/internal/catalog"
	"github.com/bibleaquifer/sitegen/internal/config"
	"github.com/bibleaquifer/sitegen/internal/forge"
	"github.com/bibleaquifer/sitegen/internal/logging"
	"github.com/bibleaquifer/sitegen/internal/site"
)

var (
	buildOutputDir string
	buildOrg       string
	buildSample    bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the static catalog site",
	Long: `Build the full static site: fetch the organization README, aggregate
every repository's per-language resource metadata, and write index.html,
catalog.html, the resources_data.yaml snapshot, and the nav/ files to the
output directory.

A forge token is required and is read from the environment:
  manage-aquifer          (preferred)
  GITHUB_AQUIFER_API_KEY  (fallback)

Pass --sample (or set DEBUG_MODE=true) to build from embedded sample data
without forge access.`,
	RunE: runBuildCommand,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVarP(&buildOutputDir, "output-dir", "o", "", "directory to write the generated site to")
	buildCmd.Flags().StringVar(&buildOrg, "org", "", "forge organization to build from")
	buildCmd.Flags().BoolVar(&buildSample, "sample", false, "build from embedded sample data instead of the forge")

	viper.BindPFlag("output.dir", buildCmd.Flags().Lookup("output-dir"))
	viper.BindPFlag("forge.org", buildCmd.Flags().Lookup("org"))
	viper.BindPFlag("sample", buildCmd.Flags().Lookup("sample"))
}

func runBuildCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	logger := newRootLogger()

	source, err := buildSource(cfg, logger)
	if err != nil {
		return err
	}

	pipeline := site.NewPipeline(site.Options{
		Source:       source,
		OutputDir:    cfg.Output.Dir,
		SnapshotName: cfg.Output.Snapshot,
		OrgName:      cfg.Forge.Org,
		Logger:       logger,
	})

	start := time.Now()
	if err := pipeline.Run(cmd.Context()); err != nil {
		return err
	}

	fmt.Printf("Build complete in %s\n", time.Since(start).Round(time.Millisecond))
	fmt.Println("Generated files:")
	fmt.Println("  - index.html")
	fmt.Println("  - catalog.html")
	fmt.Printf("  - %s\n", cfg.Output.Snapshot)
	fmt.Println("  - nav/*.json")
	return nil
}

// buildSource picks the pipeline's content source: embedded sample data in
// sample mode, otherwise the live forge behind the configured token.
func buildSource(cfg *config.Config, logger logging.Logger) (site.ContentSource, error) {
	if cfg.Sample {
		fmt.Println("Sample mode: building from embedded sample data")
		return site.NewSampleSource(), nil
	}

	if cfg.Token == "" {
		return nil, fmt.Errorf("required forge token not found; set one of the environment variables %s or %s, or run with --sample to use sample data",
			config.TokenEnvPrimary, config.TokenEnvFallback)
	}

	client := forge.New(forge.Options{
		APIBase:       cfg.Forge.APIURL,
		RawBase:       cfg.Forge.RawURL,
		Org:           cfg.Forge.Org,
		OrgRepo:       cfg.Forge.OrgRepo,
		ReadmePath:    cfg.Forge.ReadmePath,
		Token:         cfg.Token,
		ExcludedRepos: cfg.Forge.ExcludedRepos,
		Logger:        logger,
	})
	builder := catalog.NewBuilder(client, logger)
	return site.NewForgeSource(client, builder), nil
}

func newRootLogger() logging.Logger {
	logConfig := logging.DefaultConfig()
	logConfig.Level = logging.ParseLevel(viper.GetString("log-level"))
	return logging.NewLogger(logConfig)
}
