package view

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	ginrender "github.com/gin-gonic/gin/render"
	log "github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

const (
	layoutFile = "templates/base.html"
	layoutName = "base"
	errorPage  = "error.html"
)

// Renderer implements gin's ginrender.HTMLRender with one template set per
// page, each sharing the base layout.
type Renderer struct {
	pages map[string]*template.Template
}

var _ ginrender.HTMLRender = (*Renderer)(nil)

func New() (*Renderer, error) {
	entries, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, path := range entries {
		if path == layoutFile {
			continue
		}
		tmpl, err := template.New("").Funcs(Funcs()).ParseFS(templateFS, layoutFile, path)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		r.pages[path[len("templates/"):]] = tmpl
	}
	if _, ok := r.pages[errorPage]; !ok {
		return nil, fmt.Errorf("missing %s", errorPage)
	}
	return r, nil
}

func (r *Renderer) Instance(name string, data interface{}) ginrender.Render {
	tmpl, ok := r.pages[name]
	if !ok {
		log.WithField("template", name).Error("unknown template")
		return ginrender.HTML{
			Template: r.pages[errorPage],
			Name:     layoutName,
			Data: map[string]interface{}{
				"Status":  http.StatusInternalServerError,
				"Message": "An unknown error occurred",
			},
		}
	}
	return ginrender.HTML{Template: tmpl, Name: layoutName, Data: data}
}

func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Static serves the embedded stylesheet and scripts.
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
