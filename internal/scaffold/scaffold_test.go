package scaffold

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	root := t.TempDir()
	dir, err := Create(Project{Name: "mybot", Root: root})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "mybot"), dir)

	for _, f := range []string{"main.go", "go.mod", ".env.example", ".gitignore"} {
		_, err := os.Stat(filepath.Join(dir, f))
		assert.NoError(t, err, f)
	}

	gomod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(gomod), "module mybot")

	main, err := os.ReadFile(filepath.Join(dir, "main.go"))
	require.NoError(t, err)
	assert.Contains(t, string(main), `App:          "mybot"`)
	assert.Contains(t, string(main), "telegrask.New")
}

func TestCreateCustomModule(t *testing.T) {
	dir, err := Create(Project{
		Name:   "mybot",
		Root:   t.TempDir(),
		Module: "github.com/me/mybot",
	})
	require.NoError(t, err)

	gomod, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	require.NoError(t, err)
	assert.Contains(t, string(gomod), "module github.com/me/mybot")
}

func TestCreateRejectsBadNames(t *testing.T) {
	for _, name := range []string{"", "My Bot", "1bot", "UPPER", "../escape"} {
		_, err := Create(Project{Name: name, Root: t.TempDir()})
		assert.Error(t, err, "name %q", name)
	}
}

func TestCreateRefusesExisting(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "mybot"), 0o755))

	_, err := Create(Project{Name: "mybot", Root: root})
	assert.Error(t, err)
}
