// Package render turns the aggregated catalog model and the organization
// README into the static site's HTML pages.
package render

import (
	"fmt"
	"regexp"
	"strings"
)

// The organization README uses a small, known subset of markdown. A full
// CommonMark engine would also render constructs the site stylesheet has no
// rules for, so conversion is restricted to exactly the forms the profile
// README uses.
var (
	leadingH1    = regexp.MustCompile(`(?m)^# [^\n]+\n[^\n]+\n\n`)
	h2Line       = regexp.MustCompile(`(?m)^## (.*)$`)
	emphasisLink = regexp.MustCompile(`\[_([^_]+)_\]\(([^)]+)\)`)
	plainLink    = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)
	emphasisSpan = regexp.MustCompile(`_([^_]+)_`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
)

// MarkdownToHTML converts the profile README's markdown to HTML: one h2
// level, links, underscore emphasis, inline code, and paragraph wrapping.
// The leading H1 and its subtitle line are dropped because the page header
// already carries them.
func MarkdownToHTML(markdown string) string {
	html := leadingH1.ReplaceAllString(markdown, "")
	html = h2Line.ReplaceAllString(html, "<h2>$1</h2>")

	// Links are lifted out before emphasis runs so underscores inside URLs
	// cannot be misread as emphasis markers, then spliced back in.
	var links []string
	extract := func(re *regexp.Regexp, wrap func(text, url string) string) {
		html = re.ReplaceAllStringFunc(html, func(match string) string {
			parts := re.FindStringSubmatch(match)
			placeholder := fmt.Sprintf("\x00LINK%d\x00", len(links))
			links = append(links, wrap(parts[1], parts[2]))
			return placeholder
		})
	}
	extract(emphasisLink, func(text, url string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank"><em>%s</em></a>`, url, text)
	})
	extract(plainLink, func(text, url string) string {
		return fmt.Sprintf(`<a href="%s" target="_blank">%s</a>`, url, text)
	})

	html = emphasisSpan.ReplaceAllString(html, "<em>$1</em>")

	for i, link := range links {
		html = strings.Replace(html, fmt.Sprintf("\x00LINK%d\x00", i), link, 1)
	}

	html = inlineCode.ReplaceAllString(html, "<code>$1</code>")
	html = strings.ReplaceAll(html, "—", "&mdash;")

	return wrapParagraphs(html)
}

// wrapParagraphs groups consecutive non-empty lines into <p> blocks,
// leaving h2 headings bare.
func wrapParagraphs(html string) string {
	var b strings.Builder
	inParagraph := false

	closeParagraph := func() {
		if inParagraph {
			b.WriteString("</p>\n")
			inParagraph = false
		}
	}

	for _, line := range strings.Split(html, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			closeParagraph()
			continue
		}
		if strings.HasPrefix(line, "<h2>") {
			closeParagraph()
			b.WriteString(line)
			b.WriteByte('\n')
			continue
		}
		if inParagraph {
			b.WriteByte(' ')
		} else {
			b.WriteString("<p>")
			inParagraph = true
		}
		b.WriteString(line)
	}
	closeParagraph()

	return b.String()
}

// FormatSections wraps each h2-delimited block of the converted README in a
// content-section element for the index page layout.
func FormatSections(html string) string {
	var b strings.Builder
	for i, section := range strings.Split(html, "<h2>") {
		section = strings.TrimSpace(section)
		if section == "" {
			continue
		}
		if i == 0 {
			// Preamble before the first heading.
			b.WriteString(`<section class="content-section">` + section + `</section>`)
			continue
		}
		b.WriteString(`<section class="content-section"><h2>` + section + `</section>`)
	}
	return b.String()
}
