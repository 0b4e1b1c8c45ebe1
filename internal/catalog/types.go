// Package catalog builds the in-memory resource model of the catalog: one
// record per (repository, language) pair, merged per repository, with
// derived titles, citations, format availability flags, and navigation
// labels. The model is assembled once per build run and then projected into
// the rendered page payload and per-language navigation files.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	yamlv2 "gopkg.in/yaml.v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// ContentFile is one navigable content document of a language record: the
// repository-relative path plus its derived human-readable label.
type ContentFile struct {
	Path  string `json:"path" yaml:"path"`
	Label string `json:"label" yaml:"label"`
}

// Citation is the attribution block shown for a language record. Every
// field is nullable; null fields stay null in the serialized outputs.
type Citation struct {
	Title            *string `json:"title" yaml:"title"`
	CopyrightDates   *string `json:"copyright_dates" yaml:"copyright_dates"`
	CopyrightHolder  *string `json:"copyright_holder" yaml:"copyright_holder"`
	LicenseName      *string `json:"license_name" yaml:"license_name"`
	AdaptationNotice *string `json:"adaptation_notice" yaml:"adaptation_notice"`
}

// FormatFlags records which format directories exist for a language. The
// set of formats is closed; additions are a single-point edit here plus
// FormatDirs.
type FormatFlags struct {
	JSON     bool `json:"has_json" yaml:"has_json"`
	Markdown bool `json:"has_md" yaml:"has_md"`
	PDF      bool `json:"has_pdf" yaml:"has_pdf"`
	DOCX     bool `json:"has_docx" yaml:"has_docx"`
	USX      bool `json:"has_usx" yaml:"has_usx"`
	USFM     bool `json:"has_usfm" yaml:"has_usfm"`
	Audio    bool `json:"has_audio" yaml:"has_audio"`
}

// FormatDirs lists the probed format directory names in output order.
var FormatDirs = []string{"json", "md", "pdf", "docx", "usx", "usfm", "audio"}

// Set records the probe result for one format directory name. Unknown names
// are ignored so a stale probe list cannot corrupt the flags.
func (f *FormatFlags) Set(dir string, exists bool) {
	switch dir {
	case "json":
		f.JSON = exists
	case "md":
		f.Markdown = exists
	case "pdf":
		f.PDF = exists
	case "docx":
		f.DOCX = exists
	case "usx":
		f.USX = exists
	case "usfm":
		f.USFM = exists
	case "audio":
		f.Audio = exists
	}
}

// Get reports the flag for a format directory name.
func (f *FormatFlags) Get(dir string) bool {
	switch dir {
	case "json":
		return f.JSON
	case "md":
		return f.Markdown
	case "pdf":
		return f.PDF
	case "docx":
		return f.DOCX
	case "usx":
		return f.USX
	case "usfm":
		return f.USFM
	case "audio":
		return f.Audio
	}
	return false
}

// LanguageRecord is the catalog entry for one (repository, language) pair.
// JSONFiles is build-time-only: the projector strips it before the record
// is embedded in the catalog page, and it feeds the navigation files
// instead.
type LanguageRecord struct {
	Code          string        `json:"code" yaml:"code"`
	Name          string        `json:"name" yaml:"name"`
	Title         *string       `json:"title" yaml:"title"`
	Version       *string       `json:"version" yaml:"version"`
	ResourceType  *string       `json:"resource_type" yaml:"resource_type"`
	ContentType   *string       `json:"content_type" yaml:"content_type"`
	Language      *string       `json:"language" yaml:"language"`
	FirstJSONPath *string       `json:"first_json_path" yaml:"first_json_path"`
	JSONFiles     []ContentFile `json:"json_files,omitempty" yaml:"json_files,omitempty"`
	Citation      Citation      `json:"citation" yaml:"citation"`
	FormatFlags   `yaml:",inline"`
}

// Clone returns a deep copy of the record. String pointers are shared; the
// strings behind them are immutable.
func (r *LanguageRecord) Clone() *LanguageRecord {
	clone := *r
	if r.JSONFiles != nil {
		clone.JSONFiles = make([]ContentFile, len(r.JSONFiles))
		copy(clone.JSONFiles, r.JSONFiles)
	}
	return &clone
}

// Resource is the merged catalog entry for one repository.
type Resource struct {
	Name        string       `json:"name" yaml:"name"`
	Description string       `json:"description" yaml:"description"`
	URL         string       `json:"url" yaml:"url"`
	Title       string       `json:"title" yaml:"title"`
	Languages   *LanguageSet `json:"languages" yaml:"languages"`
}

// Clone returns a deep copy of the resource.
func (r *Resource) Clone() *Resource {
	clone := *r
	clone.Languages = r.Languages.Clone()
	return &clone
}

// LanguageSet is an insertion-ordered mapping from language code to record.
// Go maps do not preserve order, and both the snapshot and the catalog
// payload must reproduce the order languages were discovered in.
type LanguageSet struct {
	codes []string
	items map[string]*LanguageRecord
}

func NewLanguageSet() *LanguageSet {
	return &LanguageSet{items: make(map[string]*LanguageRecord)}
}

// Add inserts a record, replacing in place if the code is already present.
func (s *LanguageSet) Add(rec *LanguageRecord) {
	if _, exists := s.items[rec.Code]; !exists {
		s.codes = append(s.codes, rec.Code)
	}
	s.items[rec.Code] = rec
}

func (s *LanguageSet) Get(code string) (*LanguageRecord, bool) {
	rec, ok := s.items[code]
	return rec, ok
}

func (s *LanguageSet) Len() int {
	return len(s.codes)
}

// Codes returns the language codes in insertion order.
func (s *LanguageSet) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

func (s *LanguageSet) Clone() *LanguageSet {
	clone := NewLanguageSet()
	for _, code := range s.codes {
		clone.Add(s.items[code].Clone())
	}
	return clone
}

// MarshalJSON emits the set as a JSON object with keys in insertion order.
func (s *LanguageSet) MarshalJSON() ([]byte, error) {
	return marshalOrderedJSON(s.codes, func(code string) (interface{}, error) {
		return s.items[code], nil
	})
}

// MarshalYAML emits the set as an ordered mapping (yaml.v2 MapSlice).
func (s *LanguageSet) MarshalYAML() (interface{}, error) {
	out := make(yamlv2.MapSlice, 0, len(s.codes))
	for _, code := range s.codes {
		out = append(out, yamlv2.MapItem{Key: code, Value: s.items[code]})
	}
	return out, nil
}

// UnmarshalYAML decodes an ordered mapping (yaml.v3 node form), used by the
// sample-data path.
func (s *LanguageSet) UnmarshalYAML(value *yamlv3.Node) error {
	if value.Kind != yamlv3.MappingNode {
		return fmt.Errorf("languages: expected mapping, got %v", value.Kind)
	}
	if s.items == nil {
		s.items = make(map[string]*LanguageRecord)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var code string
		if err := value.Content[i].Decode(&code); err != nil {
			return fmt.Errorf("languages: %w", err)
		}
		var rec LanguageRecord
		if err := value.Content[i+1].Decode(&rec); err != nil {
			return fmt.Errorf("language %q: %w", code, err)
		}
		if rec.Code == "" {
			rec.Code = code
		}
		s.Add(&rec)
	}
	return nil
}

// ResourceSet is an insertion-ordered mapping from repository name to
// resource record, in the order repositories were processed.
type ResourceSet struct {
	names []string
	items map[string]*Resource
}

func NewResourceSet() *ResourceSet {
	return &ResourceSet{items: make(map[string]*Resource)}
}

func (s *ResourceSet) Add(res *Resource) {
	if _, exists := s.items[res.Name]; !exists {
		s.names = append(s.names, res.Name)
	}
	s.items[res.Name] = res
}

func (s *ResourceSet) Get(name string) (*Resource, bool) {
	res, ok := s.items[name]
	return res, ok
}

func (s *ResourceSet) Len() int {
	return len(s.names)
}

// Names returns the resource names in insertion order.
func (s *ResourceSet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

func (s *ResourceSet) Clone() *ResourceSet {
	clone := NewResourceSet()
	for _, name := range s.names {
		clone.Add(s.items[name].Clone())
	}
	return clone
}

// MarshalJSON emits the set as a JSON object with keys in insertion order.
func (s *ResourceSet) MarshalJSON() ([]byte, error) {
	return marshalOrderedJSON(s.names, func(name string) (interface{}, error) {
		return s.items[name], nil
	})
}

// MarshalYAML emits the set as an ordered mapping (yaml.v2 MapSlice).
func (s *ResourceSet) MarshalYAML() (interface{}, error) {
	out := make(yamlv2.MapSlice, 0, len(s.names))
	for _, name := range s.names {
		out = append(out, yamlv2.MapItem{Key: name, Value: s.items[name]})
	}
	return out, nil
}

// UnmarshalYAML decodes an ordered mapping (yaml.v3 node form).
func (s *ResourceSet) UnmarshalYAML(value *yamlv3.Node) error {
	if value.Kind != yamlv3.MappingNode {
		return fmt.Errorf("resources: expected mapping, got %v", value.Kind)
	}
	if s.items == nil {
		s.items = make(map[string]*Resource)
	}
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("resources: %w", err)
		}
		var res Resource
		if err := value.Content[i+1].Decode(&res); err != nil {
			return fmt.Errorf("resource %q: %w", name, err)
		}
		if res.Name == "" {
			res.Name = name
		}
		if res.Languages == nil {
			res.Languages = NewLanguageSet()
		}
		s.Add(&res)
	}
	return nil
}

func marshalOrderedJSON(keys []string, value func(string) (interface{}, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		item, err := value(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
