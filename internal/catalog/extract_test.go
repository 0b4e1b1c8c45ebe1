package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibleaquifer/sitegen/internal/forge"
)

func metadataDoc(mutate func(*forge.Document)) *forge.Document {
	doc := &forge.Document{
		ResourceMetadata: forge.ResourceMetadata{
			Title:        "Bible Commentary",
			Version:      "2.1",
			ResourceType: "commentary",
			ContentType:  "text",
			Language:     "eng",
			Order:        OrderCanonical,
			LicenseInfo: forge.LicenseInfo{
				Title: "Bible Commentary",
				Copyright: forge.Copyright{
					Dates:  "2023-2024",
					Holder: forge.Holder{Name: "Example Society"},
				},
				Licenses: []map[string]forge.LicenseEntry{
					{"eng": {Name: "CC BY-SA 4.0"}},
				},
			},
		},
		ScriptureBurrito: forge.ScriptureBurrito{
			Ingredients: forge.IngredientList{
				{Path: "json/01-GEN.json", MimeType: "text/json", ScopeKeys: []string{"GEN"}},
				{Path: "json/02-EXO.json", MimeType: "text/json", ScopeKeys: []string{"EXO"}},
			},
		},
	}
	if mutate != nil {
		mutate(doc)
	}
	return doc
}

func TestExtractLanguageRecordBasics(t *testing.T) {
	flags := FormatFlags{JSON: true, PDF: true}
	rec := ExtractLanguageRecord(metadataDoc(nil), "eng", nil, "BibleCommentary", flags)

	assert.Equal(t, "eng", rec.Code)
	assert.Equal(t, "English", rec.Name)
	require.NotNil(t, rec.Title)
	assert.Equal(t, "Bible Commentary", *rec.Title)
	require.NotNil(t, rec.Version)
	assert.Equal(t, "2.1", *rec.Version)
	require.NotNil(t, rec.ResourceType)
	assert.Equal(t, "commentary", *rec.ResourceType)
	assert.Equal(t, flags, rec.FormatFlags)

	require.Len(t, rec.JSONFiles, 2)
	assert.Equal(t, ContentFile{Path: "json/01-GEN.json", Label: "Genesis"}, rec.JSONFiles[0])
	assert.Equal(t, ContentFile{Path: "json/02-EXO.json", Label: "Exodus"}, rec.JSONFiles[1])
	require.NotNil(t, rec.FirstJSONPath)
	assert.Equal(t, "json/01-GEN.json", *rec.FirstJSONPath)
}

func TestExtractLanguageRecordTitleFallbacks(t *testing.T) {
	t.Run("english falls back to repository name", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) { d.ResourceMetadata.Title = "" })
		rec := ExtractLanguageRecord(doc, "eng", nil, "BibleCommentary", FormatFlags{})
		require.NotNil(t, rec.Title)
		assert.Equal(t, "BibleCommentary", *rec.Title)
	})

	t.Run("translation prefers aquifer_name", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.AquiferName = "Comentario Bíblico"
			d.ResourceMetadata.Title = "Bible Commentary"
			d.ResourceMetadata.Language = "spa"
		})
		rec := ExtractLanguageRecord(doc, "spa", nil, "BibleCommentary", FormatFlags{})
		require.NotNil(t, rec.Title)
		assert.Equal(t, "Comentario Bíblico", *rec.Title)
	})

	t.Run("translation never falls back to repository name", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.AquiferName = ""
			d.ResourceMetadata.Title = ""
			d.ResourceMetadata.Language = "spa"
		})
		rec := ExtractLanguageRecord(doc, "spa", nil, "BibleCommentary", FormatFlags{})
		assert.Nil(t, rec.Title)
	})
}

func TestExtractLanguageRecordContentFileSelection(t *testing.T) {
	doc := metadataDoc(func(d *forge.Document) {
		d.ScriptureBurrito.Ingredients = forge.IngredientList{
			// Audio timing files carry the content MIME type but live
			// outside json/ and must be skipped.
			{Path: "audio/timing/01-GEN.json", MimeType: "text/json", ScopeKeys: []string{"GEN"}},
			{Path: "json/01-GEN.json", MimeType: "text/json", ScopeKeys: []string{"GEN"}},
			{Path: "json/readme.txt", MimeType: "text/plain"},
			{Path: "json/02-EXO.json", MimeType: "text/json", ScopeKeys: []string{"EXO"}},
		}
	})

	rec := ExtractLanguageRecord(doc, "eng", nil, "Repo", FormatFlags{})
	require.Len(t, rec.JSONFiles, 2)
	assert.Equal(t, "json/01-GEN.json", rec.JSONFiles[0].Path)
	assert.Equal(t, "json/02-EXO.json", rec.JSONFiles[1].Path)
	require.NotNil(t, rec.FirstJSONPath)
	assert.Equal(t, "json/01-GEN.json", *rec.FirstJSONPath)
}

func TestExtractLanguageRecordEmptyScopeFallsBackToPath(t *testing.T) {
	doc := metadataDoc(func(d *forge.Document) {
		d.ResourceMetadata.Order = OrderMonograph
		d.ScriptureBurrito.Ingredients = forge.IngredientList{
			{Path: "json/001.content.json", MimeType: "text/json"},
		}
	})

	rec := ExtractLanguageRecord(doc, "eng", nil, "Repo", FormatFlags{})
	require.Len(t, rec.JSONFiles, 1)
	assert.Equal(t, "001.content.json", rec.JSONFiles[0].Label)
}

func TestExtractLanguageRecordNoContentFiles(t *testing.T) {
	doc := metadataDoc(func(d *forge.Document) {
		d.ScriptureBurrito.Ingredients = nil
	})

	rec := ExtractLanguageRecord(doc, "eng", nil, "Repo", FormatFlags{})
	assert.Nil(t, rec.JSONFiles)
	assert.Nil(t, rec.FirstJSONPath)
}

func TestExtractLanguageRecordCitation(t *testing.T) {
	rec := ExtractLanguageRecord(metadataDoc(nil), "eng", nil, "Repo", FormatFlags{})

	require.NotNil(t, rec.Citation.Title)
	assert.Equal(t, "Bible Commentary", *rec.Citation.Title)
	require.NotNil(t, rec.Citation.CopyrightDates)
	assert.Equal(t, "2023-2024", *rec.Citation.CopyrightDates)
	require.NotNil(t, rec.Citation.CopyrightHolder)
	assert.Equal(t, "Example Society", *rec.Citation.CopyrightHolder)
	require.NotNil(t, rec.Citation.LicenseName)
	assert.Equal(t, "CC BY-SA 4.0", *rec.Citation.LicenseName)
	assert.Nil(t, rec.Citation.AdaptationNotice)
}

func TestExtractLanguageRecordLicenseNameResolution(t *testing.T) {
	t.Run("own language preferred", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.Language = "spa"
			d.ResourceMetadata.LicenseInfo.Licenses = []map[string]forge.LicenseEntry{
				{
					"spa": {Name: "CC BY-SA 4.0 (es)"},
					"eng": {Name: "CC BY-SA 4.0"},
				},
			}
		})
		rec := ExtractLanguageRecord(doc, "spa", nil, "Repo", FormatFlags{})
		require.NotNil(t, rec.Citation.LicenseName)
		assert.Equal(t, "CC BY-SA 4.0 (es)", *rec.Citation.LicenseName)
	})

	t.Run("falls back to english entry", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.Language = "spa"
			d.ResourceMetadata.LicenseInfo.Licenses = []map[string]forge.LicenseEntry{
				{"eng": {Name: "CC BY-SA 4.0"}},
			}
		})
		rec := ExtractLanguageRecord(doc, "spa", nil, "Repo", FormatFlags{})
		require.NotNil(t, rec.Citation.LicenseName)
		assert.Equal(t, "CC BY-SA 4.0", *rec.Citation.LicenseName)
	})

	t.Run("no licenses yields nil", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.LicenseInfo.Licenses = nil
		})
		rec := ExtractLanguageRecord(doc, "eng", nil, "Repo", FormatFlags{})
		assert.Nil(t, rec.Citation.LicenseName)
	})
}

func TestExtractLanguageRecordAdaptationNoticeInheritance(t *testing.T) {
	english := metadataDoc(func(d *forge.Document) {
		d.ResourceMetadata.AdaptationNotice = "Adapted from the original work."
	})

	t.Run("own notice wins", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.Language = "spa"
			d.ResourceMetadata.AdaptationNotice = "Adaptado de la obra original."
		})
		rec := ExtractLanguageRecord(doc, "spa", english, "Repo", FormatFlags{})
		require.NotNil(t, rec.Citation.AdaptationNotice)
		assert.Equal(t, "Adaptado de la obra original.", *rec.Citation.AdaptationNotice)
	})

	t.Run("missing notice inherits from english", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.Language = "spa"
		})
		rec := ExtractLanguageRecord(doc, "spa", english, "Repo", FormatFlags{})
		require.NotNil(t, rec.Citation.AdaptationNotice)
		assert.Equal(t, "Adapted from the original work.", *rec.Citation.AdaptationNotice)
	})

	t.Run("no english document leaves notice nil", func(t *testing.T) {
		doc := metadataDoc(func(d *forge.Document) {
			d.ResourceMetadata.Language = "spa"
		})
		rec := ExtractLanguageRecord(doc, "spa", nil, "Repo", FormatFlags{})
		assert.Nil(t, rec.Citation.AdaptationNotice)
	})
}
