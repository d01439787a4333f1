package controllers

import (
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"unicode/utf8"

	"newsportal/app/models"
)

// Images resolves cover image paths for templates.
type Images struct {
	Origin   string
	Fallback string
}

// URL resolves path against the asset origin. Anything that is not a web or
// image data URL is replaced by the fallback.
func (i Images) URL(path string) template.URL {
	resolved := models.ResolveImageURL(i.Origin, path, i.Fallback)
	if safeImageURL(resolved) {
		return template.URL(resolved)
	}
	return template.URL(i.Fallback)
}

func safeImageURL(u string) bool {
	lower := strings.ToLower(u)
	return strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") ||
		strings.HasPrefix(lower, "data:image/") ||
		strings.HasPrefix(u, "/")
}

// LoadTemplates parses every page against the shared layout.
func LoadTemplates(fsys fs.FS, images Images) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"coverURL":      images.URL,
		"previewURL":    images.URL,
		"fallbackImage": func() string { return images.Fallback },
		"excerpt":       excerpt,
	}

	pages := map[string]string{
		"index":  "posts/index.html",
		"show":   "posts/show.html",
		"admin":  "admin/index.html",
		"delete": "admin/delete.html",
	}

	templates := make(map[string]*template.Template, len(pages))
	for name, page := range pages {
		tpl, err := template.New(name).Funcs(funcs).ParseFS(fsys, "layout.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[name] = tpl
	}
	return templates, nil
}

// excerpt shortens s to at most n runes, cutting at a word boundary.
func excerpt(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	cut := string(runes[:n])
	if i := strings.LastIndex(cut, " "); i > n/2 {
		cut = cut[:i]
	}
	return cut + "…"
}
