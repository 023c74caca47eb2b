// Package web renders the single-page chat UI.
package web

import (
	"embed"
	"html/template"
	"io"
)

const Title = "TIA - Tel-U Interactive AI"

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// Page is everything the chat page shows
type Page struct {
	Title     string
	Course    string
	LogoURL   string
	UserInput string
	Answer    string
	Failed    bool
}

func NewPage(course, logoURL string) *Page {
	return &Page{
		Title:   Title,
		Course:  course,
		LogoURL: logoURL,
	}
}

// Render writes the page as HTML. Answer text is escaped.
func Render(w io.Writer, page *Page) error {
	return pageTemplate.Execute(w, page)
}
