// Package blogjs adds article branches to the switch statement in the site's
// blog script. The script is edited as text; nothing but the inserted case
// changes.
package blogjs

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// ErrDefaultCaseNotFound is returned when the script has no default branch
// to anchor the new case on.
var ErrDefaultCaseNotFound = errors.New("could not find default case in blog script switch statement")

var reDefaultCase = regexp.MustCompile("default:\\s*fullArticleContent = `<p>Article content not found\\.</p>`;")

const (
	caseIndent = "                "     // 16 spaces, matches the switch body
	bodyIndent = "                    " // 20 spaces, statements inside a case
)

var (
	titleEscaper = strings.NewReplacer(`\`, `\\`, "`", "\\`")
	bodyEscaper  = strings.NewReplacer(`\`, `\\`, "`", "\\`", `$`, `\$`, "\r\n", `\n`, "\n", `\n`)
)

// Article is one blog entry to be materialised as a switch case.
type Article struct {
	ID    string
	Title string
	Body  string // already HTML when Rendered is set, plain text otherwise
	// Rendered marks Body as a block of HTML produced from Markdown; it is
	// emitted after the heading instead of inside a <p>.
	Rendered bool
}

// EscapeTitle escapes s for use inside a JavaScript template literal.
func EscapeTitle(s string) string {
	return titleEscaper.Replace(s)
}

// EscapeBody escapes s for use inside a JavaScript template literal and
// folds line breaks into \n escapes.
func EscapeBody(s string) string {
	return bodyEscaper.Replace(s)
}

// CaseFragment renders the case branch for a.
func CaseFragment(a Article) string {
	var b strings.Builder
	b.WriteString(caseIndent)
	b.WriteString("case ")
	b.WriteString(strconv.Quote(a.ID))
	b.WriteString(":\n")
	b.WriteString(bodyIndent)
	b.WriteString("fullArticleContent = `<h2>")
	b.WriteString(EscapeTitle(a.Title))
	b.WriteString("</h2>\n")
	b.WriteString(bodyIndent)
	if a.Rendered {
		b.WriteString(EscapeBody(strings.TrimSpace(a.Body)))
	} else {
		b.WriteString("<p>")
		b.WriteString(EscapeBody(a.Body))
		b.WriteString("</p>")
	}
	b.WriteString("`;\n")
	b.WriteString(bodyIndent)
	b.WriteString("break;")
	return b.String()
}

// InsertCase inserts the case branch for a directly before the default
// branch of src. When the default branch is missing src is returned as is
// together with ErrDefaultCaseNotFound.
//
// Ids are not deduplicated: inserting the same id twice yields two branches
// and the first one wins at runtime.
func InsertCase(src string, a Article) (string, error) {
	loc := reDefaultCase.FindStringIndex(src)
	if loc == nil {
		return src, ErrDefaultCaseNotFound
	}
	return src[:loc[0]] + CaseFragment(a) + "\n" + caseIndent + src[loc[0]:], nil
}
