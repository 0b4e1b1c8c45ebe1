package catalog

import (
	"context"
	"regexp"
	"strings"

	"github.com/bibleaquifer/sitegen/internal/forge"
	"github.com/bibleaquifer/sitegen/internal/logging"
)

// Fetcher is the slice of the forge client the aggregation pass needs.
type Fetcher interface {
	Repositories(ctx context.Context) ([]forge.Repository, error)
	Languages(ctx context.Context, repo string) ([]string, error)
	Metadata(ctx context.Context, repo, lang string) (*forge.Document, error)
	FormatExists(ctx context.Context, repo, lang, dir string) bool
}

// Builder aggregates per-repository, per-language metadata into the
// resource model. One repository at a time, one language at a time, in the
// order the forge lists them.
type Builder struct {
	fetcher Fetcher
	logger  logging.Logger
}

func NewBuilder(fetcher Fetcher, logger logging.Logger) *Builder {
	if logger == nil {
		logger = logging.NewLogger(logging.DefaultConfig())
	}
	return &Builder{
		fetcher: fetcher,
		logger:  logger.WithComponent("catalog"),
	}
}

// Build assembles the full resource set. A repository-listing failure is
// fatal; everything below that level degrades to dropped languages or
// dropped repositories.
func (b *Builder) Build(ctx context.Context) (*ResourceSet, error) {
	b.logger.Info(ctx, "fetching repositories")
	repos, err := b.fetcher.Repositories(ctx)
	if err != nil {
		return nil, err
	}

	set := NewResourceSet()
	for _, repo := range repos {
		b.logger.Info(ctx, "processing repository", "repo", repo.Name)
		if res := b.BuildResource(ctx, repo); res != nil {
			set.Add(res)
		}
	}
	return set, nil
}

// BuildResource merges one repository's per-language records into a
// Resource. It returns nil when no language produced a metadata record;
// such repositories are excluded from the catalog.
func (b *Builder) BuildResource(ctx context.Context, repo forge.Repository) *Resource {
	languages, err := b.fetcher.Languages(ctx, repo.Name)
	if err != nil {
		b.logger.Warn(ctx, err, "listing languages failed", "repo", repo.Name)
		return nil
	}
	if len(languages) == 0 {
		b.logger.Info(ctx, "no languages found", "repo", repo.Name)
		return nil
	}

	// Translations may omit metadata that is authored once in English.
	english, err := b.fetcher.Metadata(ctx, repo.Name, englishCode)
	if err != nil {
		b.logger.Warn(ctx, err, "fetching English metadata failed", "repo", repo.Name)
		english = nil
	}

	res := &Resource{
		Name:        repo.Name,
		Description: repo.Description,
		URL:         repo.URL,
		Languages:   NewLanguageSet(),
	}

	// The first-seen title is only tentative: an English record overwrites
	// it permanently whenever English appears, regardless of position.
	var tentativeTitle, finalTitle *string

	for _, lang := range languages {
		b.logger.Info(ctx, "fetching metadata", "repo", repo.Name, "lang", lang)
		doc, err := b.fetcher.Metadata(ctx, repo.Name, lang)
		if err != nil {
			b.logger.Warn(ctx, err, "fetching metadata failed", "repo", repo.Name, "lang", lang)
			continue
		}
		if doc == nil {
			continue
		}

		var flags FormatFlags
		for _, dir := range FormatDirs {
			flags.Set(dir, b.fetcher.FormatExists(ctx, repo.Name, lang, dir))
		}

		rec := ExtractLanguageRecord(doc, lang, english, repo.Name, flags)
		res.Languages.Add(rec)

		if finalTitle == nil {
			if lang == englishCode {
				finalTitle = rec.Title
			} else if tentativeTitle == nil && rec.Title != nil {
				tentativeTitle = rec.Title
			}
		}
	}

	if res.Languages.Len() == 0 {
		return nil
	}

	switch {
	case finalTitle != nil:
		res.Title = *finalTitle
	case tentativeTitle != nil:
		res.Title = *tentativeTitle
	default:
		res.Title = HumanizeRepoName(repo.Name)
	}
	return res
}

var camelBoundary = regexp.MustCompile(`([A-Z])`)

// HumanizeRepoName turns a camel-case repository name into a spaced title,
// the last-resort resource title when no metadata supplies one.
func HumanizeRepoName(name string) string {
	return strings.TrimSpace(camelBoundary.ReplaceAllString(name, " $1"))
}
