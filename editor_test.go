package sitepatch

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/sitepatch/cpanel"
	"github.com/eringen/sitepatch/merge"
)

const blogScript = `function showArticle(id) {
    let fullArticleContent = "";
    switch (id) {
                case "first":
                    fullArticleContent = ` + "`<h2>First</h2>`" + `;
                    break;
                default:
                    fullArticleContent = ` + "`<p>Article content not found.</p>`" + `;
    }
}
`

func decode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v), "body: %s", body)
	return v
}

func TestSaveMergesBodyAndStylesheets(t *testing.T) {
	fake := newFakeCPanel(map[string]string{
		"public_html/about.html": `<html><head></head><body>OLD</body></html>`,
	})
	app := newTestApp(t, fake)

	rec := postJSON(app, "/save", `{"file":"about.html","content":"NEW"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[SaveResponse](t, rec.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "File saved successfully!", resp.Message)
	assert.Equal(t, "about", resp.Slug)
	assert.Equal(t, DefaultPages()["about"], resp.CSSFiles)
	assert.NotEmpty(t, resp.Timestamp)

	want := "<html><head>" + merge.StylesheetLinks(DefaultPages()["about"]) + "\n</head><body>\nNEW\n</body></html>"
	got, _ := fake.file("public_html/about.html")
	assert.Equal(t, want, got)
	assert.Equal(t, 1, fake.writes)
}

func TestSaveUnknownSlugKeepsHead(t *testing.T) {
	original := `<html><head><link rel="stylesheet" href="mine.css"></head><body>x</body></html>`
	fake := newFakeCPanel(map[string]string{"public_html/landing.html": original})
	app := newTestApp(t, fake)

	rec := postJSON(app, "/save", `{"file":"landing.html","content":"y"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[SaveResponse](t, rec.Body.Bytes())
	assert.NotNil(t, resp.CSSFiles)
	assert.Empty(t, resp.CSSFiles)
	assert.Contains(t, rec.Body.String(), `"cssFiles":[]`)

	got, _ := fake.file("public_html/landing.html")
	assert.Equal(t, `<html><head><link rel="stylesheet" href="mine.css"></head><body>`+"\ny\n"+`</body></html>`, got)
}

func TestSaveTwiceIsStable(t *testing.T) {
	fake := newFakeCPanel(map[string]string{
		"public_html/faq.html": `<html><head></head><body>OLD</body></html>`,
	})
	app := newTestApp(t, fake)

	require.Equal(t, http.StatusOK, postJSON(app, "/save", `{"file":"faq.html","content":"NEW"}`).Code)
	first, _ := fake.file("public_html/faq.html")
	require.Equal(t, http.StatusOK, postJSON(app, "/save", `{"file":"faq.html","content":"NEW"}`).Code)
	second, _ := fake.file("public_html/faq.html")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, strings.Count(second, "<body>"))
	assert.Equal(t, 2, strings.Count(second, `rel="stylesheet"`))
}

func TestSaveFormEncoded(t *testing.T) {
	fake := newFakeCPanel(map[string]string{
		"public_html/contact.html": `<html><head></head><body>OLD</body></html>`,
	})
	app := newTestApp(t, fake)

	rec := postForm(app, "/save", url.Values{"file": {"contact.html"}, "content": {"<p>a & b</p>"}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got, _ := fake.file("public_html/contact.html")
	assert.Contains(t, got, "<body>\n<p>a & b</p>\n</body>")
}

func TestSaveEmptyContentIsValid(t *testing.T) {
	fake := newFakeCPanel(map[string]string{
		"public_html/about.html": `<html><head></head><body>OLD</body></html>`,
	})
	app := newTestApp(t, fake)

	rec := postJSON(app, "/save", `{"file":"about.html","content":""}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got, _ := fake.file("public_html/about.html")
	assert.Contains(t, got, "<body>\n\n</body>")
}

func TestSaveTestPing(t *testing.T) {
	fake := newFakeCPanel(nil)
	app := newTestApp(t, fake)

	rec := postJSON(app, "/save", `{"test":true}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[PingResponse](t, rec.Body.Bytes())
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Message)
	assert.NotEmpty(t, resp.Timestamp)
	assert.Zero(t, fake.calls)
}

func TestSaveRejectsBadRequests(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{"missing file", `{"content":"x"}`, "file"},
		{"missing content", `{"file":"about.html"}`, "content"},
		{"empty object", `{}`, "file"},
		{"path traversal", `{"file":"../secret.html","content":"x"}`, "file"},
		{"wrong extension", `{"file":"page.htm","content":"x"}`, "file"},
		{"double extension", `{"file":"script.html.php","content":"x"}`, "file"},
		{"malformed json", `{"file":`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeCPanel(nil)
			app := newTestApp(t, fake)

			rec := postJSON(app, "/save", tt.body)
			require.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			resp := decode[ErrorResponse](t, rec.Body.Bytes())
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
			assert.Equal(t, tt.field, resp.Field)
			assert.Zero(t, fake.calls, "no remote call expected")
		})
	}
}

func TestSaveOriginalMissing(t *testing.T) {
	fake := newFakeCPanel(nil)
	app := newTestApp(t, fake)

	rec := postJSON(app, "/save", `{"file":"about.html","content":"x"}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
	resp := decode[ErrorResponse](t, rec.Body.Bytes())
	assert.Equal(t, "Original file not found or could not be read from cPanel", resp.Message)
	assert.Zero(t, fake.writes)
}

func TestSaveEmptyOriginalCountsAsMissing(t *testing.T) {
	app := newTestApp(t, newFakeCPanel(map[string]string{"public_html/about.html": ""}))

	rec := postJSON(app, "/save", `{"file":"about.html","content":"x"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSaveWriteFailure(t *testing.T) {
	fake := newFakeCPanel(map[string]string{
		"public_html/about.html": `<html><body>OLD</body></html>`,
	})
	fake.failWrite = true
	app := newTestApp(t, fake)

	rec := postJSON(app, "/save", `{"file":"about.html","content":"x"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[ErrorResponse](t, rec.Body.Bytes())
	assert.Equal(t, "Failed to save file to cPanel", resp.Message)
	assert.Contains(t, resp.Error, "Disk quota exceeded")

	got, _ := fake.file("public_html/about.html")
	assert.Equal(t, `<html><body>OLD</body></html>`, got)
}

func TestSaveTransportFailure(t *testing.T) {
	stub := &stubFiles{content: "<body>x</body>", writeErr: &cpanel.APIError{Endpoint: "Fileman/save_file_content", Err: errors.New("connection reset")}}
	app := New(Config{}, WithRemoteFiles(stub))
	silence(app)
	require.NoError(t, app.Init())

	rec := postJSON(app, "/save", `{"file":"about.html","content":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "connection reset")
}

func TestEdit(t *testing.T) {
	page := `<!DOCTYPE html>
<html><head>
<title>About us</title>
<link rel="stylesheet" href="/assets/css/old.css">
</head><body class="page">
  <h1>About</h1>
</body></html>`
	app := newTestApp(t, newFakeCPanel(map[string]string{"public_html/about.html": page}))

	rec := doRequest(app, http.MethodGet, "/edit/about.html", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[EditResponse](t, rec.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "about.html", resp.Filename)
	assert.Equal(t, "about", resp.Slug)
	assert.Equal(t, "About us", resp.Title)
	assert.Equal(t, "<h1>About</h1>", resp.BodyContent)
	assert.Equal(t, DefaultPages()["about"], resp.CSSFiles)
	assert.Equal(t, []string{"/assets/css/old.css"}, resp.CurrentCSSFiles)
}

func TestEditErrors(t *testing.T) {
	app := newTestApp(t, newFakeCPanel(nil))

	rec := doRequest(app, http.MethodGet, "/edit/missing.html", "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "File not found in cPanel", decode[ErrorResponse](t, rec.Body.Bytes()).Message)

	rec = doRequest(app, http.MethodGet, "/edit/page.htm", "", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "filename", decode[ErrorResponse](t, rec.Body.Bytes()).Field)
}

func TestSaveBlogArticle(t *testing.T) {
	fake := newFakeCPanel(map[string]string{"public_html/assets/js/blog.js": blogScript})
	app := newTestApp(t, fake)

	rec := postJSON(app, "/save-blog-article", `{"articleId":"new-post","title":"Hello","content":"Line 1\nLine 2"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[BlogArticleResponse](t, rec.Body.Bytes())
	assert.True(t, resp.Success)
	assert.Equal(t, "new-post", resp.ArticleID)
	assert.Equal(t, "Article added to blog.js successfully", resp.Message)

	got, _ := fake.file("public_html/assets/js/blog.js")
	newCase := strings.Index(got, `case "new-post":`)
	def := strings.Index(got, "default:")
	require.True(t, newCase > 0, got)
	assert.Less(t, strings.Index(got, `case "first":`), newCase)
	assert.Less(t, newCase, def)
	assert.Contains(t, got, "<h2>Hello</h2>\n                    <p>Line 1\\nLine 2</p>`;")
}

func TestSaveBlogArticleMarkdown(t *testing.T) {
	fake := newFakeCPanel(map[string]string{"public_html/assets/js/blog.js": blogScript})
	app := newTestApp(t, fake)

	rec := postForm(app, "/save-blog-article", url.Values{
		"articleId": {"md"},
		"title":     {"Styled"},
		"content":   {"Some **bold** text"},
		"format":    {"markdown"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got, _ := fake.file("public_html/assets/js/blog.js")
	assert.Contains(t, got, "<strong>bold</strong>")
	assert.NotContains(t, got, "<p><p>")
}

func TestSaveBlogArticleErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		body    string
		code    int
		message string
	}{
		{
			"missing title",
			map[string]string{"public_html/assets/js/blog.js": blogScript},
			`{"articleId":"a","content":"c"}`,
			http.StatusBadRequest,
			"Missing required fields: articleId, title, or content",
		},
		{
			"unknown format",
			map[string]string{"public_html/assets/js/blog.js": blogScript},
			`{"articleId":"a","title":"t","content":"c","format":"rst"}`,
			http.StatusBadRequest,
			"Unsupported format, use text or markdown",
		},
		{
			"script missing",
			nil,
			`{"articleId":"a","title":"t","content":"c"}`,
			http.StatusNotFound,
			"blog.js not found in cPanel",
		},
		{
			"no default case",
			map[string]string{"public_html/assets/js/blog.js": "switch (id) {\n default:\n  break;\n}\n"},
			`{"articleId":"a","title":"t","content":"c"}`,
			http.StatusInternalServerError,
			"Could not find default case in blog.js switch statement",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := newFakeCPanel(tt.files)
			app := newTestApp(t, fake)

			rec := postJSON(app, "/save-blog-article", tt.body)
			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			assert.Equal(t, tt.message, decode[ErrorResponse](t, rec.Body.Bytes()).Message)
			assert.Zero(t, fake.writes)
		})
	}
}

func TestTestCPanel(t *testing.T) {
	app := newTestApp(t, newFakeCPanel(map[string]string{"public_html/about.html": "<html></html>"}))

	rec := doRequest(app, http.MethodGet, "/test-cpanel", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[DiagnosticsResponse](t, rec.Body.Bytes())
	assert.True(t, resp.Success, spew.Sdump(resp))
	assert.Equal(t, 1, resp.Tests.Version.Status)
	assert.Equal(t, 3, resp.Tests.ListFiles.FileCount)
	assert.True(t, resp.Tests.FileContent.HasContent)
	assert.Contains(t, rec.Body.String(), `"file_count":3`)
}

func TestTestCPanelFailure(t *testing.T) {
	fake := newFakeCPanel(nil)
	fake.denyAll = true
	app := newTestApp(t, fake)

	rec := doRequest(app, http.MethodGet, "/test-cpanel", "", "")
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	resp := decode[ErrorResponse](t, rec.Body.Bytes())
	assert.False(t, resp.Success)
	assert.Equal(t, "cPanel connection test failed", resp.Message)
	assert.Equal(t, "Check cPanel credentials, URL, and API permissions", resp.Suggestion)
	assert.Contains(t, resp.Error, "Access denied")
}
