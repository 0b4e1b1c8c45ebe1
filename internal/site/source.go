package site

import (
	"context"

	"github.com/bibleaquifer/sitegen/internal/catalog"
	"github.com/bibleaquifer/sitegen/internal/forge"
)

// ForgeSource feeds the pipeline from the live forge: the organization
// profile README plus the aggregated resource model.
type ForgeSource struct {
	client  *forge.Client
	builder *catalog.Builder
}

func NewForgeSource(client *forge.Client, builder *catalog.Builder) *ForgeSource {
	return &ForgeSource{client: client, builder: builder}
}

func (s *ForgeSource) Readme(ctx context.Context) (string, error) {
	return s.client.Readme(ctx)
}

func (s *ForgeSource) Resources(ctx context.Context) (*catalog.ResourceSet, error) {
	return s.builder.Build(ctx)
}
