package merge

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Outline is what the editor needs to know about a stored page besides its
// body: the document title and the stylesheets it currently links.
type Outline struct {
	Title       string
	Stylesheets []string
}

// Inspect parses doc with a tolerant HTML parser and returns its Outline.
// Malformed markup is accepted; only unreadable input yields an error.
func Inspect(doc string) (Outline, error) {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		return Outline{}, err
	}
	sel := goquery.NewDocumentFromNode(root)

	out := Outline{
		Title:       strings.TrimSpace(sel.Find("title").First().Text()),
		Stylesheets: []string{},
	}
	sel.Find("link[href]").Each(func(_ int, link *goquery.Selection) {
		rel, _ := link.Attr("rel")
		if !strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			return
		}
		href, _ := link.Attr("href")
		out.Stylesheets = append(out.Stylesheets, href)
	})
	return out, nil
}
