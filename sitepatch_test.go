package sitepatch

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/sitepatch/cpanel"
)

// fakeCPanel serves the handful of UAPI calls the app makes from an
// in-memory file map keyed by "dir/file".
type fakeCPanel struct {
	mu        sync.Mutex
	files     map[string]string
	writes    int
	calls     int
	failWrite bool
	denyAll   bool
}

func newFakeCPanel(files map[string]string) *fakeCPanel {
	if files == nil {
		files = map[string]string{}
	}
	return &fakeCPanel{files: files}
}

func (f *fakeCPanel) file(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.files[key]
	return v, ok
}

func (f *fakeCPanel) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++

	w.Header().Set("Content-Type", "application/json")
	if f.denyAll {
		w.WriteHeader(http.StatusForbidden)
		io.WriteString(w, `{"status":0,"errors":["Access denied"]}`)
		return
	}

	switch r.URL.Path {
	case "/execute/Version":
		io.WriteString(w, `{"status":1,"data":"11.110.0.5"}`)
	case "/execute/Fileman/list_files":
		io.WriteString(w, `{"status":1,"data":[{"file":"about.html"},{"file":"index.html"},{"file":"assets"}]}`)
	case "/execute/Fileman/get_file_content":
		q := r.URL.Query()
		content, ok := f.files[q.Get("dir")+"/"+q.Get("file")]
		if !ok {
			io.WriteString(w, `{"status":0,"errors":["The file does not exist."],"data":null}`)
			return
		}
		writeJSON(w, map[string]any{"status": 1, "data": map[string]any{"content": content}})
	case "/execute/Fileman/save_file_content":
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if f.failWrite {
			io.WriteString(w, `{"status":0,"errors":["Disk quota exceeded"]}`)
			return
		}
		f.writes++
		f.files[r.PostForm.Get("dir")+"/"+r.PostForm.Get("file")] = r.PostForm.Get("content")
		io.WriteString(w, `{"status":1,"data":{}}`)
	default:
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"status":0,"errors":["Unknown function"]}`)
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(v)
}

// stubFiles is a RemoteFiles whose calls return preset results.
type stubFiles struct {
	content  string
	readErr  error
	writeErr error
	written  string
	report   cpanel.Report
	diagErr  error
}

func (s *stubFiles) ReadFile(ctx context.Context, name string) (string, error) {
	return s.content, s.readErr
}

func (s *stubFiles) WriteFile(ctx context.Context, name, content string) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.written = content
	return nil
}

func (s *stubFiles) Diagnose(ctx context.Context, probeFile string) (cpanel.Report, error) {
	return s.report, s.diagErr
}

func silence(app *App) {
	app.Echo.Logger.SetLevel(log.OFF)
}

func newTestApp(t *testing.T, fake *fakeCPanel, opts ...Option) *App {
	t.Helper()
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	app := New(Config{
		CPanelURL:      srv.URL,
		CPanelUser:     "user",
		CPanelPassword: "secret",
	}, opts...)
	silence(app)
	require.NoError(t, app.Init())
	return app
}

func doRequest(app *App, method, target, contentType, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	app.Echo.ServeHTTP(rec, req)
	return rec
}

func postJSON(app *App, target, body string) *httptest.ResponseRecorder {
	return doRequest(app, http.MethodPost, target, "application/json", body)
}

func postForm(app *App, target string, form url.Values) *httptest.ResponseRecorder {
	return doRequest(app, http.MethodPost, target, "application/x-www-form-urlencoded", form.Encode())
}

func TestInitRequiresCredentials(t *testing.T) {
	app := New(Config{CPanelURL: "https://host:2083"})
	err := app.Init()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CPanelUser")
	assert.Contains(t, err.Error(), "CPanelPassword")
}

func TestConfigDefaults(t *testing.T) {
	app := New(Config{})
	assert.Equal(t, ":3000", app.Config.Addr)
	assert.Equal(t, "public_html", app.Config.CPanelDir)
	assert.Equal(t, "assets/js/blog.js", app.Config.BlogScriptPath)
	assert.Equal(t, "about.html", app.Config.ProbeFile)
	assert.Equal(t, "4M", app.Config.BodyLimit)
}

func TestInitLoadsPagesFile(t *testing.T) {
	path := t.TempDir() + "/pages.yaml"
	require.NoError(t, os.WriteFile(path, []byte("pages:\n  landing:\n    - /css/landing.css\n"), 0o644))

	app := New(Config{PagesFile: path}, WithRemoteFiles(&stubFiles{}))
	silence(app)
	require.NoError(t, app.Init())
	assert.Equal(t, []string{"/css/landing.css"}, app.Pages.Stylesheets("landing"))
	assert.Empty(t, app.Pages.Stylesheets("about"))
}

func TestInitIsIdempotent(t *testing.T) {
	app := newTestApp(t, newFakeCPanel(nil))
	require.NoError(t, app.Init())
	rec := doRequest(app, http.MethodGet, "/healthz", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCustomRoutes(t *testing.T) {
	app := newTestApp(t, newFakeCPanel(nil), WithCustomRoutes(func(a *App) {
		a.Echo.GET("/version", func(c echo.Context) error {
			return c.String(http.StatusOK, "v1")
		})
	}))
	rec := doRequest(app, http.MethodGet, "/version", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "v1", rec.Body.String())
}
