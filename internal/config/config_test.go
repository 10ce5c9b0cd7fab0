package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hanpama/jsonschema2sdl/internal/document"
	"github.com/hanpama/jsonschema2sdl/internal/translate"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.Equal(t, "Input", cfg.RefSuffix.Input)
	require.Equal(t, "", cfg.RefSuffix.Output)
	require.False(t, cfg.ValidateSDL)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "project.yaml", `
roots:
  - name: User
    schema: schemas/user.json
  - name: CreateUser
    schema: schemas/create_user.yaml
    direction: input
output: out/schema.graphql
validate: true
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Len(t, cfg.Roots, 2)
	require.True(t, cfg.ValidateSDL)
	require.Equal(t, document.CheckSchema, cfg.CheckLevel())
	require.Equal(t, "Input", cfg.RefSuffix.Input, "defaults survive partial files")
	require.Equal(t, filepath.Join(dir, "schemas", "user.json"), cfg.SchemaPath(cfg.Roots[0]))
	require.Equal(t, filepath.Join(dir, "out", "schema.graphql"), cfg.OutputPath())
	require.Equal(t, translate.Output, cfg.Roots[0].DirectionOf())
	require.Equal(t, translate.Input, cfg.Roots[1].DirectionOf())
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "project.json", `{
		"roots": [{"name": "Order", "schema": "/abs/order.json"}],
		"refSuffix": {"input": "In", "output": "Out"}
	}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/abs/order.json", cfg.SchemaPath(cfg.Roots[0]))
	require.Equal(t, "", cfg.OutputPath())
	require.Equal(t, "In", cfg.RefSuffix.For(translate.Input))
	require.Equal(t, "Out", cfg.RefSuffix.For(translate.Output))
	require.Equal(t, document.CheckNone, cfg.CheckLevel())
}

func TestLoadCheck(t *testing.T) {
	path := writeFile(t, t.TempDir(), "project.yml", "roots:\n  - name: A\n    schema: a.json\ncheck: syntax\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, document.CheckSyntax, cfg.CheckLevel())
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"empty.json":     `{"roots": []}`,
		"dup.json":       `{"roots": [{"name": "A", "schema": "a.json"}, {"name": "A", "schema": "b.json"}]}`,
		"noschema.json":  `{"roots": [{"name": "A"}]}`,
		"direction.json": `{"roots": [{"name": "A", "schema": "a.json", "direction": "up"}]}`,
		"syntax.json":    `{"roots": [`,
		"check.json":     `{"roots": [{"name": "A", "schema": "a.json"}], "check": "strict"}`,
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, name, content))
			require.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}
