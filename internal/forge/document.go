package forge

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the upstream per-language metadata document fetched from a
// repository's <lang>/metadata.json.
type Document struct {
	ResourceMetadata ResourceMetadata `json:"resource_metadata"`
	ScriptureBurrito ScriptureBurrito `json:"scripture_burrito"`
}

// ResourceMetadata carries the resource-level descriptive fields.
type ResourceMetadata struct {
	Title            string      `json:"title"`
	AquiferName      string      `json:"aquifer_name"`
	Version          string      `json:"version"`
	ResourceType     string      `json:"resource_type"`
	AquiferType      string      `json:"aquifer_type"`
	ContentType      string      `json:"content_type"`
	Language         string      `json:"language"`
	Order            string      `json:"order"`
	AdaptationNotice string      `json:"adaptation_notice"`
	LicenseInfo      LicenseInfo `json:"license_info"`
}

// LicenseInfo is the citation block of the metadata document. The licenses
// list holds mappings keyed by language code.
type LicenseInfo struct {
	Title     string                    `json:"title"`
	Copyright Copyright                 `json:"copyright"`
	Licenses  []map[string]LicenseEntry `json:"licenses"`
}

type Copyright struct {
	Dates  string `json:"dates"`
	Holder Holder `json:"holder"`
}

type Holder struct {
	Name string `json:"name"`
}

type LicenseEntry struct {
	Name string `json:"name"`
}

// ScriptureBurrito holds the content manifest.
type ScriptureBurrito struct {
	Ingredients IngredientList `json:"ingredients"`
}

// Ingredient describes one physical content file in the manifest. ScopeKeys
// preserves the document order of the ingredient's scope mapping keys; the
// first key is what the catalog derives navigation labels from.
type Ingredient struct {
	Path      string
	MimeType  string
	ScopeKeys []string
	Size      int64
}

// IngredientList decodes the manifest's `ingredients` JSON object while
// preserving key order. encoding/json map decoding would lose it, and both
// the navigation label order and the first-content-path rule depend on the
// order the upstream document lists its ingredients in.
type IngredientList []Ingredient

func (l *IngredientList) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		*l = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("ingredients: %w", err)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("ingredients: %w", err)
		}
		path, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ingredients: unexpected key token %v", keyTok)
		}

		var body ingredientBody
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("ingredient %q: %w", path, err)
		}

		*l = append(*l, Ingredient{
			Path:      path,
			MimeType:  body.MimeType,
			ScopeKeys: body.Scope.keys,
			Size:      body.Size,
		})
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("ingredients: %w", err)
	}
	return nil
}

type ingredientBody struct {
	MimeType string    `json:"mimeType"`
	Scope    scopeKeys `json:"scope"`
	Size     int64     `json:"size"`
}

// scopeKeys captures the keys of a scope object in document order. The
// values (chapter lists and the like) are not needed for the catalog.
type scopeKeys struct {
	keys []string
}

func (s *scopeKeys) UnmarshalJSON(data []byte) error {
	if isJSONNull(data) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("scope: %w", err)
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("scope: %w", err)
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("scope: unexpected key token %v", keyTok)
		}
		s.keys = append(s.keys, key)

		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return fmt.Errorf("scope %q: %w", key, err)
		}
	}

	if _, err := dec.Token(); err != nil {
		return fmt.Errorf("scope: %w", err)
	}
	return nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

func isJSONNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
