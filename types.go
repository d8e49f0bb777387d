package sitepatch

import "github.com/eringen/sitepatch/cpanel"

// ErrorResponse is the envelope every failed request answers with.
type ErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	Error      string `json:"error,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// PingResponse answers a /save request carrying {"test": true}.
type PingResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// SaveResponse reports a merged and written page.
type SaveResponse struct {
	Success   bool     `json:"success"`
	Message   string   `json:"message"`
	Slug      string   `json:"slug"`
	CSSFiles  []string `json:"cssFiles"`
	Timestamp string   `json:"timestamp"`
}

// EditResponse carries the editable parts of a stored page.
type EditResponse struct {
	Success         bool     `json:"success"`
	Filename        string   `json:"filename"`
	Slug            string   `json:"slug"`
	Title           string   `json:"title"`
	BodyContent     string   `json:"bodyContent"`
	CSSFiles        []string `json:"cssFiles"`
	CurrentCSSFiles []string `json:"currentCssFiles"`
}

// BlogArticleResponse reports an article added to the blog script.
type BlogArticleResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	ArticleID string `json:"articleId"`
}

// DiagnosticsResponse is the result of /test-cpanel.
type DiagnosticsResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Tests   cpanel.Report `json:"tests"`
}

// PagesResponse lists the page stylesheet table.
type PagesResponse struct {
	Success bool      `json:"success"`
	Pages   PageTable `json:"pages"`
}
