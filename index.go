package sitepatch

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

type endpoint struct {
	Method string
	Path   string
	Help   string
}

var endpoints = []endpoint{
	{"POST", "/save", "Merge edited body content into a page and save it"},
	{"GET", "/edit/:filename", "Get the body content of a page for editing"},
	{"POST", "/save-blog-article", "Add an article to the blog script"},
	{"GET", "/test-cpanel", "Test the cPanel connection"},
	{"GET", "/pages", "List pages and their stylesheets"},
}

// indexPage lists the API and the page table.
func indexPage(pages PageTable) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>sitepatch</title>`)
		b.WriteString(`<style>body{font-family:sans-serif;max-width:48rem;margin:2rem auto}code{background:#eee;padding:0 .2rem}</style>`)
		b.WriteString(`</head><body><h1>sitepatch</h1><h2>Endpoints</h2><ul>`)
		for _, ep := range endpoints {
			b.WriteString(`<li><code>`)
			b.WriteString(templ.EscapeString(ep.Method + " " + ep.Path))
			b.WriteString(`</code> `)
			b.WriteString(templ.EscapeString(ep.Help))
			b.WriteString(`</li>`)
		}
		b.WriteString(`</ul><h2>Pages</h2><table>`)
		for _, slug := range pages.Slugs() {
			b.WriteString(`<tr><td><code>`)
			b.WriteString(templ.EscapeString(slug + ".html"))
			b.WriteString(`</code></td><td>`)
			b.WriteString(templ.EscapeString(strings.Join(pages[slug], ", ")))
			b.WriteString(`</td></tr>`)
		}
		b.WriteString(`</table></body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func renderHTML(c echo.Context, code int, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(code)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

func (a *App) handleIndex(c echo.Context) error {
	return renderHTML(c, http.StatusOK, indexPage(a.Pages))
}
