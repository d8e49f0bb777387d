package sitepatch

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/sitepatch/blogjs"
	"github.com/eringen/sitepatch/cpanel"
	"github.com/eringen/sitepatch/merge"
)

type saveRequest struct {
	File    string  `json:"file"`
	Content *string `json:"content"` // nil when absent, "" is a valid body
	Test    bool    `json:"test"`
}

// bindSave decodes a JSON or form-encoded save request, keeping track of
// whether content was sent at all.
func bindSave(c echo.Context) (saveRequest, error) {
	var req saveRequest
	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		err := c.Bind(&req)
		return req, err
	}
	params, err := c.FormParams()
	if err != nil {
		return req, err
	}
	req.File = params.Get("file")
	if v, ok := params["content"]; ok && len(v) > 0 {
		req.Content = &v[0]
	}
	req.Test, _ = strconv.ParseBool(params.Get("test"))
	return req, nil
}

type blogArticleRequest struct {
	ArticleID string `json:"articleId" form:"articleId"`
	Title     string `json:"title" form:"title"`
	Content   string `json:"content" form:"content"`
	Format    string `json:"format" form:"format"` // "" or "text" (default), "markdown"
}

// readPage reads name from the remote store. An empty file counts as
// missing: there is nothing to merge into.
func (a *App) readPage(ctx context.Context, name string) (string, error) {
	content, err := a.Files.ReadFile(ctx, name)
	if err != nil {
		return "", err
	}
	if content == "" {
		return "", fmt.Errorf("%s is empty: %w", name, cpanel.ErrNotFound)
	}
	return content, nil
}

// handleSave merges the edited body and the page's stylesheets into the
// stored page and writes it back. Concurrent saves of one page race; the
// last write wins.
func (a *App) handleSave(c echo.Context) error {
	req, err := bindSave(c)
	if err != nil {
		return fail(c, invalid("", "Invalid request body"), "")
	}

	if req.Test {
		return c.JSON(http.StatusOK, PingResponse{
			Success:   true,
			Message:   "sitepatch server is working",
			Timestamp: Timestamp(time.Now()),
		})
	}

	if req.File == "" || req.Content == nil {
		field := "file"
		if req.File != "" {
			field = "content"
		}
		return fail(c, invalid(field, "Missing file or content parameter"), "")
	}
	if !ValidFilename(req.File) {
		return fail(c, invalid("file", "Invalid filename format"), "")
	}

	slug := SlugFromFilename(req.File)
	cssFiles := a.Pages.Stylesheets(slug)
	c.Logger().Infof("save %s: slug %q, %d chars, %d stylesheets", req.File, slug, len(*req.Content), len(cssFiles))

	ctx := c.Request().Context()
	original, err := a.readPage(ctx, req.File)
	if err != nil {
		return fail(c, err, "Original file not found or could not be read from cPanel")
	}

	merged := merge.Document(original, *req.Content, cssFiles)

	if err := a.Files.WriteFile(ctx, req.File, merged); err != nil {
		return fail(c, err, "Failed to save file to cPanel")
	}

	return c.JSON(http.StatusOK, SaveResponse{
		Success:   true,
		Message:   "File saved successfully!",
		Slug:      slug,
		CSSFiles:  cssFiles,
		Timestamp: Timestamp(time.Now()),
	})
}

// handleEdit returns the body content of a stored page for the editor.
func (a *App) handleEdit(c echo.Context) error {
	filename := c.Param("filename")
	if !ValidFilename(filename) {
		return fail(c, invalid("filename", "Invalid filename format"), "")
	}

	content, err := a.readPage(c.Request().Context(), filename)
	if err != nil {
		return fail(c, err, "File not found in cPanel")
	}

	outline, err := merge.Inspect(content)
	if err != nil {
		c.Logger().Warnf("edit %s: inspect: %v", filename, err)
		outline = merge.Outline{Stylesheets: []string{}}
	}

	slug := SlugFromFilename(filename)
	return c.JSON(http.StatusOK, EditResponse{
		Success:         true,
		Filename:        filename,
		Slug:            slug,
		Title:           outline.Title,
		BodyContent:     merge.ExtractBody(content),
		CSSFiles:        a.Pages.Stylesheets(slug),
		CurrentCSSFiles: outline.Stylesheets,
	})
}

// handleSaveBlogArticle adds a case for a new article to the blog script's
// switch statement.
func (a *App) handleSaveBlogArticle(c echo.Context) error {
	var req blogArticleRequest
	if err := c.Bind(&req); err != nil {
		return fail(c, invalid("", "Invalid request body"), "")
	}
	if req.ArticleID == "" || req.Title == "" || req.Content == "" {
		return fail(c, invalid(missingArticleField(req), "Missing required fields: articleId, title, or content"), "")
	}

	article := blogjs.Article{ID: req.ArticleID, Title: req.Title, Body: req.Content}
	switch strings.ToLower(req.Format) {
	case "", "text":
	case "markdown":
		body, err := blogjs.RenderMarkdown(req.Content)
		if err != nil {
			return fail(c, invalid("content", "Could not render Markdown content"), "")
		}
		article.Body = body
		article.Rendered = true
	default:
		return fail(c, invalid("format", "Unsupported format, use text or markdown"), "")
	}

	script := a.Config.BlogScriptPath
	name := path.Base(script)
	c.Logger().Infof("add article %q (%s) to %s", req.Title, req.ArticleID, script)

	ctx := c.Request().Context()
	current, err := a.readPage(ctx, script)
	if err != nil {
		return fail(c, err, name+" not found in cPanel")
	}

	updated, err := blogjs.InsertCase(current, article)
	if err != nil {
		return fail(c, err, "Could not find default case in "+name+" switch statement")
	}

	if err := a.Files.WriteFile(ctx, script, updated); err != nil {
		return fail(c, err, "Failed to save updated "+name+" to cPanel")
	}

	return c.JSON(http.StatusOK, BlogArticleResponse{
		Success:   true,
		Message:   "Article added to " + name + " successfully",
		ArticleID: req.ArticleID,
	})
}

func missingArticleField(req blogArticleRequest) string {
	switch {
	case req.ArticleID == "":
		return "articleId"
	case req.Title == "":
		return "title"
	}
	return "content"
}

// handleTestCPanel runs the cPanel connectivity checks.
func (a *App) handleTestCPanel(c echo.Context) error {
	report, err := a.Files.Diagnose(c.Request().Context(), a.Config.ProbeFile)
	if err != nil {
		c.Logger().Errorf("cPanel connection test failed: %v", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success:    false,
			Message:    "cPanel connection test failed",
			Error:      err.Error(),
			Suggestion: "Check cPanel credentials, URL, and API permissions",
		})
	}
	return c.JSON(http.StatusOK, DiagnosticsResponse{
		Success: true,
		Message: "cPanel connection test completed successfully",
		Tests:   report,
	})
}
