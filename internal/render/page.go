// Package render builds the HTML shown in the designated output container:
// full status pages, estimator fragments and sanitized server bodies. Every
// function returns markup; nothing here writes a document.
package render

import (
	_ "embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"
)

//go:embed status.html.tmpl
var statusTemplate string

var statusPage = template.Must(template.New("status").Parse(statusTemplate))

// Variant selects the site a status page belongs to.
type Variant int

const (
	Site Variant = iota
	Secondary
)

// style holds the per-site presentation differences.
type style struct {
	lang       string
	stylesheet string
	wrapper    string
	titleSep   string
	footer     string
}

var styles = map[Variant]style{
	Site: {
		stylesheet: "style.css",
		wrapper:    "container",
		titleSep:   ": ",
	},
	Secondary: {
		lang:       "en",
		stylesheet: "/style.css",
		wrapper:    "page-wrapper",
		titleSep:   " ",
		footer:     "© Johnny, Sonja, and Thiwanka 2026. Built for the 42 project Webserv.",
	},
}

// ParseVariant maps "site" or "secondary" to a Variant.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "", "site":
		return Site, nil
	case "secondary":
		return Secondary, nil
	}
	return Site, fmt.Errorf("unknown page variant %q", s)
}

func (v Variant) String() string {
	if v == Secondary {
		return "secondary"
	}
	return "site"
}

// Page is the content of a status page.
type Page struct {
	Status   int
	Message  string
	BackHref string // empty omits the back button
}

type pageData struct {
	Lang       string
	Title      string
	Stylesheet string
	Wrapper    string
	Heading    string
	Message    string
	BackJS     template.JS
	Footer     string
}

// StatusPage renders a full HTML document for page in the given variant.
func StatusPage(variant Variant, page Page) (string, error) {
	st, ok := styles[variant]
	if !ok {
		return "", fmt.Errorf("unknown page variant %d", int(variant))
	}

	code := fmt.Sprintf("%d", page.Status)
	reason := http.StatusText(page.Status)
	data := pageData{
		Lang:       st.lang,
		Title:      code + st.titleSep + reason,
		Stylesheet: st.stylesheet,
		Wrapper:    st.wrapper,
		Heading:    code + ": " + reason,
		Message:    page.Message,
		Footer:     st.footer,
	}
	if page.BackHref != "" {
		data.BackJS = template.JS("location.href=" + jsQuote(page.BackHref))
	}

	var b strings.Builder
	if err := statusPage.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render status page: %w", err)
	}
	return b.String(), nil
}

// DeletedPage is the page shown after a successful DELETE.
func DeletedPage(variant Variant) (string, error) {
	return StatusPage(variant, Page{
		Status:   http.StatusNoContent,
		Message:  "Success! File was deleted.",
		BackHref: "/index.html",
	})
}

// jsQuote returns s as a single-quoted JavaScript string literal.
func jsQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "<", `\x3c`)
	return "'" + r.Replace(s) + "'"
}
