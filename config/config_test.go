package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nalgeon/be"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	err := os.WriteFile(path, []byte(content), 0644)
	be.Err(t, err, nil)
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	be.Err(t, cfg.Validate(), nil)
	be.Equal(t, cfg.Strategy, "fall")
	be.Equal(t, cfg.Names.TempPrefix, "_t")
	be.Equal(t, cfg.Names.LabelPrefix, "_L")
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	writeFile(t, path, `
strategy = "jump"

[names]
label_prefix = "L"
`)

	cfg, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Strategy, "jump")
	be.Equal(t, cfg.Names.LabelPrefix, "L")
	be.Equal(t, cfg.Names.TempPrefix, "_t")
	be.Equal(t, cfg.Run.MaxSteps, Default().Run.MaxSteps)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"syntax", "strategy = ", "failed to parse"},
		{"unknown key", "stratgy = \"jump\"\n", "failed to parse"},
		{"bad strategy", "strategy = \"both\"\n", `strategy must be "fall" or "jump"`},
		{"same prefixes", "[names]\ntemp_prefix = \"t\"\nlabel_prefix = \"t\"\n", "must differ"},
		{"steps", "[run]\nmax_steps = 0\n", "max_steps must be positive"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(dir, test.name+".toml")
			writeFile(t, path, test.content)
			_, err := Load(path)
			be.Err(t, err, test.want)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	be.Err(t, err, "failed to read config file")
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	be.Err(t, os.MkdirAll(nested, 0755), nil)

	path, err := Find(nested)
	be.Err(t, err, nil)
	be.Equal(t, path, "")

	writeFile(t, filepath.Join(root, FileName), "strategy = \"jump\"\n")
	path, err = Find(nested)
	be.Err(t, err, nil)
	be.Equal(t, path, filepath.Join(root, FileName))

	cfg, found, err := Resolve(nested)
	be.Err(t, err, nil)
	be.Equal(t, found, path)
	be.Equal(t, cfg.Strategy, "jump")
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	cfg := Default()
	cfg.Strategy = "jump"
	cfg.Run.MaxSteps = 7

	be.Err(t, Save(path, cfg), nil)
	loaded, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, *loaded, *cfg)

	be.Err(t, Save(path, nil), "config is nil")
}

func TestInitWritesDefaults(t *testing.T) {
	dir := t.TempDir()
	path, err := Init(dir, false)
	be.Err(t, err, nil)
	be.Equal(t, path, filepath.Join(dir, FileName))

	cfg, err := Load(path)
	be.Err(t, err, nil)
	be.Equal(t, *cfg, *Default())

	_, err = Init(dir, false)
	be.Err(t, err, "already exists")

	writeFile(t, path, "strategy = \"jump\"\n")
	_, err = Init(dir, true)
	be.Err(t, err, nil)
	cfg, err = Load(path)
	be.Err(t, err, nil)
	be.Equal(t, cfg.Strategy, "fall")
}
