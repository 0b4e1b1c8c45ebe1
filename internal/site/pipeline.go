// Package site drives the full build: fetch content, aggregate the catalog
// model, and write the static site artifacts to the output directory.
package site

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yamlv2 "gopkg.in/yaml.v2"

	"github.com/bibleaquifer/sitegen/internal/catalog"
	"github.com/bibleaquifer/sitegen/internal/logging"
	"github.com/bibleaquifer/sitegen/internal/render"
)

// ContentSource supplies the two inputs of a build: the organization README
// and the aggregated resource set. The live forge and the embedded sample
// data both satisfy it, so every downstream stage is identical in both
// modes.
type ContentSource interface {
	Readme(ctx context.Context) (string, error)
	Resources(ctx context.Context) (*catalog.ResourceSet, error)
}

// Options configures a build pipeline.
type Options struct {
	Source    ContentSource
	OutputDir string
	// SnapshotName is the file name of the YAML snapshot written next to
	// the HTML artifacts.
	SnapshotName string
	OrgName      string
	Logger       logging.Logger
}

// Pipeline runs the build stages in a fixed order and writes every
// artifact under the output directory.
type Pipeline struct {
	source   ContentSource
	outDir   string
	snapshot string
	orgName  string
	logger   logging.Logger
}

func NewPipeline(opts Options) *Pipeline {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	return &Pipeline{
		source:   opts.Source,
		outDir:   opts.OutputDir,
		snapshot: opts.SnapshotName,
		orgName:  opts.OrgName,
		logger:   logger.WithComponent("site"),
	}
}

// Run executes the whole build. Any stage error aborts the run; no partial
// run is reported as complete.
func (p *Pipeline) Run(ctx context.Context) error {
	if err := os.MkdirAll(p.outDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	p.logger.Info(ctx, "fetching README")
	readme, err := p.source.Readme(ctx)
	if err != nil {
		return fmt.Errorf("fetching README: %w", err)
	}
	readmeHTML := render.FormatSections(render.MarkdownToHTML(readme))

	p.logger.Info(ctx, "building resource data")
	resources, err := p.source.Resources(ctx)
	if err != nil {
		return fmt.Errorf("building resource data: %w", err)
	}
	p.logger.Info(ctx, "resource data built", "resources", resources.Len())

	if err := p.writeSnapshot(ctx, resources); err != nil {
		return err
	}
	if err := p.writeIndex(ctx, readmeHTML); err != nil {
		return err
	}
	if err := p.writeCatalog(ctx, resources); err != nil {
		return err
	}
	if err := p.writeNavFiles(ctx, resources); err != nil {
		return err
	}

	p.logger.Info(ctx, "build complete", "dir", p.outDir)
	return nil
}

func (p *Pipeline) writeSnapshot(ctx context.Context, resources *catalog.ResourceSet) error {
	p.logger.Info(ctx, "writing snapshot", "file", p.snapshot)
	data, err := yamlv2.Marshal(resources)
	if err != nil {
		return fmt.Errorf("marshaling snapshot: %w", err)
	}
	return p.writeFile(p.snapshot, data)
}

func (p *Pipeline) writeIndex(ctx context.Context, readmeHTML string) error {
	p.logger.Info(ctx, "generating index.html")
	page, err := render.RenderIndex(readmeHTML)
	if err != nil {
		return err
	}
	return p.writeFile("index.html", page)
}

func (p *Pipeline) writeCatalog(ctx context.Context, resources *catalog.ResourceSet) error {
	p.logger.Info(ctx, "generating catalog.html")
	page, err := render.RenderCatalog(catalog.Project(resources), p.orgName)
	if err != nil {
		return err
	}
	return p.writeFile("catalog.html", page)
}

// writeNavFiles emits one JSON array per (resource, language) that has
// content files, named nav/<Resource>_<lang>.json. The browsing page
// fetches them lazily when a navigation pane is opened.
func (p *Pipeline) writeNavFiles(ctx context.Context, resources *catalog.ResourceSet) error {
	navDir := filepath.Join(p.outDir, "nav")
	if err := os.MkdirAll(navDir, 0o755); err != nil {
		return fmt.Errorf("creating nav directory: %w", err)
	}

	count := 0
	for _, name := range resources.Names() {
		res, _ := resources.Get(name)
		for _, code := range res.Languages.Codes() {
			rec, _ := res.Languages.Get(code)
			if len(rec.JSONFiles) == 0 {
				continue
			}

			data, err := json.MarshalIndent(rec.JSONFiles, "", "  ")
			if err != nil {
				return fmt.Errorf("marshaling nav data for %s/%s: %w", name, code, err)
			}
			file := filepath.Join("nav", fmt.Sprintf("%s_%s.json", name, code))
			if err := p.writeFile(file, data); err != nil {
				return err
			}
			count++
		}
	}

	p.logger.Info(ctx, "nav files written", "count", count)
	return nil
}

func (p *Pipeline) writeFile(name string, data []byte) error {
	path := filepath.Join(p.outDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return nil
}
