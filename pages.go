package sitepatch

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// PageTable maps a page slug to the stylesheets the page must link, in
// link order. It is read-only once the App is initialized.
type PageTable map[string][]string

// DefaultPages returns the stylesheet table of the hosted site.
func DefaultPages() PageTable {
	return PageTable{
		"index":             {"/assets/css/styles.css", "/assets/css/gallery.css", "/assets/css/services.css"},
		"about":             {"/assets/css/about.css", "/assets/css/styles.css", "/assets/css/services.css"},
		"services":          {"/assets/css/services.css", "/assets/css/styles.css"},
		"blog":              {"/assets/css/blog.css", "/assets/css/styles.css"},
		"booking":           {"/assets/css/booking.css"},
		"contact":           {"/assets/css/contact.css", "/assets/css/styles.css", "/assets/css/services.css"},
		"gallery":           {"/assets/css/gallery.css", "/assets/css/styles.css", "/assets/css/services.css"},
		"packages":          {"/assets/css/package.css"},
		"trailers":          {"/assets/css/trailers.css", "/assets/css/services.css", "/assets/css/styles.css"},
		"students":          {"/assets/css/trailers.css", "/assets/css/services.css", "/assets/css/styles.css"},
		"video-productions": {"/assets/css/trailers.css", "/assets/css/services.css", "/assets/css/styles.css"},
		"film-productions":  {"/assets/css/trailers.css", "/assets/css/services.css", "/assets/css/styles.css"},
		"faq":               {"/assets/css/faq.css", "/assets/css/styles.css"},
		"awards":            {"/assets/css/styles.css", "/assets/css/about.css", "/assets/css/services.css"},
	}
}

// Stylesheets returns a copy of the stylesheet list for slug. Unknown slugs
// get an empty, non-nil list.
func (t PageTable) Stylesheets(slug string) []string {
	css := t[slug]
	out := make([]string, len(css))
	copy(out, css)
	return out
}

// Slugs returns the known slugs in sorted order.
func (t PageTable) Slugs() []string {
	slugs := make([]string, 0, len(t))
	for slug := range t {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

type pagesFile struct {
	Pages map[string][]string `yaml:"pages"`
}

// ParsePages reads a page table from YAML of the form
//
//	pages:
//	  about:
//	    - /assets/css/about.css
//	    - /assets/css/styles.css
func ParsePages(data []byte) (PageTable, error) {
	var f pagesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if len(f.Pages) == 0 {
		return nil, fmt.Errorf("no pages defined")
	}
	t := make(PageTable, len(f.Pages))
	for slug, css := range f.Pages {
		if slug == "" {
			return nil, fmt.Errorf("empty page slug")
		}
		t[slug] = FilterEmpty(css)
	}
	return t, nil
}

// LoadPages reads a page table from the YAML file at path.
func LoadPages(path string) (PageTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := ParsePages(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}
