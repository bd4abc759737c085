// Package scaffold generates new bot projects from embedded templates.
package scaffold

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"text/template"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Project describes a project to generate.
type Project struct {
	// Name is the project directory and default module name.
	Name string
	// Root is the parent directory (default: current directory).
	Root string
	// Module overrides the go.mod module path (default: Name).
	Module string
}

var nameRe = regexp.MustCompile(`^[a-z][a-z0-9_-]*$`)

// templates maps output file names to template files.
var templates = map[string]string{
	"main.go":      "templates/main.go.tmpl",
	"go.mod":       "templates/go.mod.tmpl",
	".env.example": "templates/env.example.tmpl",
	".gitignore":   "templates/gitignore.tmpl",
}

// Create generates the project directory and its files. It refuses to touch
// an existing directory.
func Create(p Project) (string, error) {
	if !nameRe.MatchString(p.Name) {
		return "", fmt.Errorf("scaffold: invalid project name %q", p.Name)
	}
	if p.Root == "" {
		p.Root = "."
	}
	if p.Module == "" {
		p.Module = p.Name
	}

	dir := filepath.Join(p.Root, p.Name)
	if _, err := os.Stat(dir); err == nil {
		return "", fmt.Errorf("scaffold: %s already exists", dir)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	data := struct {
		Name   string
		Module string
	}{Name: p.Name, Module: p.Module}

	for out, src := range templates {
		if err := render(filepath.Join(dir, out), src, data); err != nil {
			return "", err
		}
	}
	return dir, nil
}

func render(path, src string, data any) error {
	t, err := template.ParseFS(templatesFS, src)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.Execute(f, data)
}
