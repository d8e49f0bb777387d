// Package merge splices edited body content and page stylesheets into an
// existing HTML document. The document is treated as text: only the body
// region and the stylesheet links are touched, everything else is kept
// byte for byte.
package merge

import (
	"html"
	"regexp"
	"strings"
)

var (
	reBody       = regexp.MustCompile(`(?is)(<body[^>]*>)(.*?)</body>`)
	reBodyClose  = regexp.MustCompile(`(?i)</body>`)
	reHTMLClose  = regexp.MustCompile(`(?i)</html>`)
	reHeadClose  = regexp.MustCompile(`(?i)</head>`)
	reStylesheet = regexp.MustCompile(`(?i)<link[^>]*rel=['"]\s*stylesheet\s*['"][^>]*>`)
)

// Document merges body and stylesheets into original and returns the result.
//
// The inner content of the first <body ...>...</body> region is replaced by
// "\n"+body+"\n"; the opening tag and its attributes are kept. Without such a
// region a complete body block is injected before </body>, else before
// </html>, else appended.
//
// When stylesheets is non-empty every existing stylesheet <link> is removed
// and the new links are inserted, in order, before </head> (or at the top of
// the document when there is no </head>). An empty list leaves the head alone.
func Document(original, body string, stylesheets []string) string {
	merged := Body(original, body)
	if len(stylesheets) > 0 {
		merged = Stylesheets(merged, stylesheets)
	}
	return merged
}

// Body replaces or injects the body content as described on Document.
func Body(original, body string) string {
	inner := "\n" + body + "\n"

	if m := reBody.FindStringSubmatchIndex(original); m != nil {
		// m[2:4] is the opening tag, m[4:6] the old inner content.
		return original[:m[4]] + inner + original[m[5]:]
	}

	block := "<body>" + inner + "</body>"
	if loc := reBodyClose.FindStringIndex(original); loc != nil {
		return insertAt(original, loc[0], block+"\n")
	}
	if loc := reHTMLClose.FindStringIndex(original); loc != nil {
		return insertAt(original, loc[0], block+"\n")
	}
	return original + block
}

// Stylesheets strips every stylesheet link from doc and inserts links for
// hrefs before </head>, or at the very top when doc has no head end tag.
// With no hrefs doc is returned unchanged.
func Stylesheets(doc string, hrefs []string) string {
	if len(hrefs) == 0 {
		return doc
	}
	doc = reStylesheet.ReplaceAllLiteralString(doc, "")
	links := StylesheetLinks(hrefs)
	if loc := reHeadClose.FindStringIndex(doc); loc != nil {
		return insertAt(doc, loc[0], links+"\n")
	}
	return links + "\n" + doc
}

// StylesheetLinks renders one indented <link rel="stylesheet"> per href,
// joined by newlines.
func StylesheetLinks(hrefs []string) string {
	lines := make([]string, len(hrefs))
	for i, href := range hrefs {
		lines[i] = `    <link rel="stylesheet" href="` + html.EscapeString(href) + `">`
	}
	return strings.Join(lines, "\n")
}

// ExtractBody returns the trimmed inner content of the first body region, or
// "" when the document has none.
func ExtractBody(doc string) string {
	m := reBody.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[2])
}

func insertAt(s string, i int, insert string) string {
	return s[:i] + insert + s[i:]
}
