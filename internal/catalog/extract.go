package catalog

import (
	"strings"

	"github.com/bibleaquifer/sitegen/internal/forge"
)

// contentMimeType marks ingredients that are browsable JSON content files.
const contentMimeType = "text/json"

// contentDirPrefix is where content files live inside a language directory.
// Audio timing files report the same MIME type from a different directory
// and must not be picked up.
const contentDirPrefix = "json/"

const englishCode = "eng"

// ExtractLanguageRecord derives a LanguageRecord from a fetched metadata
// document. english is the repository's English metadata document when one
// exists; it supplies the adaptation notice for translations that omit
// theirs. flags carries the already-probed format availability.
func ExtractLanguageRecord(doc *forge.Document, lang string, english *forge.Document, repoName string, flags FormatFlags) *LanguageRecord {
	meta := doc.ResourceMetadata

	// English records fall back to the repository name; translations fall
	// back to the plain title but never to the repository name.
	var title *string
	if lang == englishCode {
		title = nullable(firstNonEmpty(meta.Title, repoName))
	} else {
		title = nullable(firstNonEmpty(meta.AquiferName, meta.Title))
	}

	// Adaptation notices are authored once in English and inherited.
	notice := meta.AdaptationNotice
	if notice == "" && english != nil {
		notice = english.ResourceMetadata.AdaptationNotice
	}

	files, firstPath := contentFiles(doc, lang)

	return &LanguageRecord{
		Code:          lang,
		Name:          LanguageName(lang),
		Title:         title,
		Version:       nullable(meta.Version),
		ResourceType:  nullable(firstNonEmpty(meta.ResourceType, meta.AquiferType)),
		ContentType:   nullable(meta.ContentType),
		Language:      nullable(meta.Language),
		FirstJSONPath: firstPath,
		JSONFiles:     files,
		Citation: Citation{
			Title:            nullable(meta.LicenseInfo.Title),
			CopyrightDates:   nullable(meta.LicenseInfo.Copyright.Dates),
			CopyrightHolder:  nullable(meta.LicenseInfo.Copyright.Holder.Name),
			LicenseName:      licenseName(meta),
			AdaptationNotice: nullable(notice),
		},
		FormatFlags: flags,
	}
}

// contentFiles selects the browsable content files from the manifest in
// document order and derives their navigation labels. The first selected
// path doubles as the default preview document.
func contentFiles(doc *forge.Document, lang string) ([]ContentFile, *string) {
	order := doc.ResourceMetadata.Order

	var files []ContentFile
	for _, ing := range doc.ScriptureBurrito.Ingredients {
		if ing.MimeType != contentMimeType {
			continue
		}
		if !strings.HasPrefix(ing.Path, contentDirPrefix) {
			continue
		}

		// An empty scope falls back to the raw path before transforming.
		raw := ing.Path
		if len(ing.ScopeKeys) > 0 {
			raw = ing.ScopeKeys[0]
		}

		files = append(files, ContentFile{
			Path:  ing.Path,
			Label: TransformLabel(raw, order, lang),
		})
	}

	if len(files) == 0 {
		return nil, nil
	}
	first := files[0].Path
	return files, &first
}

// licenseName resolves the display name from the first license entry,
// preferring the record's own language and falling back to English.
func licenseName(meta forge.ResourceMetadata) *string {
	licenses := meta.LicenseInfo.Licenses
	if len(licenses) == 0 {
		return nil
	}

	first := licenses[0]
	langKey := meta.Language
	if langKey == "" {
		langKey = englishCode
	}

	if entry, ok := first[langKey]; ok && entry.Name != "" {
		return nullable(entry.Name)
	}
	if entry, ok := first[englishCode]; ok && entry.Name != "" {
		return nullable(entry.Name)
	}
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
