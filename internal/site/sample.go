package site

import (
	"context"
	_ "embed"
	"fmt"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/bibleaquifer/sitegen/internal/catalog"
)

//go:embed sampledata/readme.md
var sampleReadme string

//go:embed sampledata/resources.yaml
var sampleResources []byte

// SampleSource feeds the pipeline from embedded sample data so a full site
// can be generated without forge access or a token.
type SampleSource struct{}

func NewSampleSource() *SampleSource {
	return &SampleSource{}
}

func (s *SampleSource) Readme(ctx context.Context) (string, error) {
	return sampleReadme, nil
}

func (s *SampleSource) Resources(ctx context.Context) (*catalog.ResourceSet, error) {
	var set catalog.ResourceSet
	if err := yamlv3.Unmarshal(sampleResources, &set); err != nil {
		return nil, fmt.Errorf("decoding sample resources: %w", err)
	}
	return &set, nil
}
