package render

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"sort"

	"github.com/bibleaquifer/sitegen/internal/catalog"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var (
	indexTmpl   = template.Must(template.ParseFS(templateFS, "templates/index.html.tmpl"))
	catalogTmpl = template.Must(template.ParseFS(templateFS, "templates/catalog.html.tmpl"))
)

type indexData struct {
	Content template.HTML
}

type resourceOption struct {
	ID    string
	Title string
}

type catalogData struct {
	Options       []resourceOption
	ResourcesJSON template.JS
	OrgName       string
}

// RenderIndex produces the landing page with the converted README content
// embedded. The content is HTML produced by this package's own markdown
// converter, not user input.
func RenderIndex(readmeHTML string) ([]byte, error) {
	var buf bytes.Buffer
	err := indexTmpl.Execute(&buf, indexData{Content: template.HTML(readmeHTML)})
	if err != nil {
		return nil, fmt.Errorf("rendering index: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderCatalog produces the catalog browsing page. The resource set should
// already be projected (content file lists stripped); it is embedded whole
// as the page's data payload, and the resource dropdown is pre-populated
// sorted by display title.
func RenderCatalog(set *catalog.ResourceSet, orgName string) ([]byte, error) {
	payload, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling catalog payload: %w", err)
	}

	options := make([]resourceOption, 0, set.Len())
	for _, name := range set.Names() {
		res, _ := set.Get(name)
		options = append(options, resourceOption{ID: name, Title: res.Title})
	}
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Title < options[j].Title
	})

	var buf bytes.Buffer
	err = catalogTmpl.Execute(&buf, catalogData{
		Options:       options,
		ResourcesJSON: template.JS(payload),
		OrgName:       orgName,
	})
	if err != nil {
		return nil, fmt.Errorf("rendering catalog: %w", err)
	}
	return buf.Bytes(), nil
}
