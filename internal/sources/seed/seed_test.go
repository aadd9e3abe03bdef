package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/siteboard/internal/directory"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAndMap(t *testing.T) {
	t.Setenv("SEED_LOGO_HOST", "https://cdn.example.com")
	path := writeSeed(t, `---
- Developer Tools:
    - GitHub:
        href: https://github.com
        description: Code hosting
        keywords: git, code
        icon: ${SEED_LOGO_HOST}/github.png
    - Go Docs:
        href: https://go.dev/doc
        description: Go documentation
- News:
    - Lobsters:
        href: https://lobste.rs
        description: Link aggregation
`)

	file, err := NewLoader(path).Load()
	require.NoError(t, err)

	sites := MapSites(file)
	require.Len(t, sites, 3)
	assert.Equal(t, directory.SiteInput{
		SiteName:    "GitHub",
		SiteURL:     "https://github.com",
		Category:    "Developer Tools",
		Description: "Code hosting",
		Keywords:    "git, code",
		LogoPath:    "https://cdn.example.com/github.png",
	}, sites[0])
	assert.Equal(t, "Go Docs", sites[1].SiteName)
	assert.Equal(t, "Developer Tools", sites[1].Category)
	assert.Equal(t, "News", sites[2].Category)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "absent.yaml")).Load()
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := writeSeed(t, "- News: [unterminated")
	_, err := NewLoader(path).Load()
	assert.Error(t, err)
}

func TestMapEmpty(t *testing.T) {
	assert.Empty(t, MapSites(nil))
}
