package migration

import (
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/loykin/ternmigrate/internal/command"
	"gopkg.in/yaml.v3"
)

// File is one discovered migration definition. Version is the filename
// prefix up to the first hyphen; files order lexicographically by it.
type File struct {
	Version string
	Name    string
	Path    string
}

var migrationExts = map[string]struct{}{
	".yaml": {},
	".yml":  {},
}

// ListFiles discovers migration files in the root of fsys. Discovery is
// deterministic: results sort by version, then by name.
func ListFiles(fsys fs.FS) ([]File, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, err
	}
	var files []File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if _, ok := migrationExts[path.Ext(name)]; !ok {
			continue
		}
		version, rest, found := strings.Cut(name, "-")
		if !found || version == "" || rest == "" {
			continue
		}
		files = append(files, File{Version: version, Name: name, Path: name})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].Version != files[j].Version {
			return files[i].Version < files[j].Version
		}
		return files[i].Name < files[j].Name
	})
	return files, nil
}

// Migration is one parsed migration: a version id plus up and down command
// sequences.
type Migration struct {
	Version string
	Name    string
	Up      []command.Command
	Down    []command.Command
}

type fileDoc struct {
	Up   interface{} `yaml:"up"`
	Down interface{} `yaml:"down"`
}

// Load parses one migration file into its up and down command sequences.
func Load(fsys fs.FS, f File) (*Migration, error) {
	data, err := fs.ReadFile(fsys, f.Path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	var doc fileDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", f.Name, err)
	}
	up, err := command.ParseList(doc.Up)
	if err != nil {
		return nil, fmt.Errorf("%s up: %w", f.Name, err)
	}
	down, err := command.ParseList(doc.Down)
	if err != nil {
		return nil, fmt.Errorf("%s down: %w", f.Name, err)
	}
	return &Migration{Version: f.Version, Name: f.Name, Up: up, Down: down}, nil
}

// LoadAll discovers and parses every migration in fsys, ordered by version.
func LoadAll(fsys fs.FS) ([]*Migration, error) {
	files, err := ListFiles(fsys)
	if err != nil {
		return nil, err
	}
	out := make([]*Migration, 0, len(files))
	for _, f := range files {
		m, err := Load(fsys, f)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}
