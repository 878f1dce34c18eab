package loader

import (
	"testing"

	"github.com/confkit/confkit/internal/fsx"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidatePaths_PriorityOrder(t *testing.T) {
	got := CandidatePaths("/cfg", "app")
	require.NotEmpty(t, got)
	assert.Equal(t, "/cfg/app.config.ts", got[0])
	assert.Contains(t, got, "/cfg/app.config.yaml")
	assert.Contains(t, got, "/cfg/.apprc")
}

func TestResolveCandidate_PicksHighestPriorityExtensionPresent(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/app.config.yaml", []byte("a: 1\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/cfg/app.config.json", []byte(`{"a":1}`), 0o644))

	rel, ok := ResolveCandidate(fsx.Afero{FS: fs}, "/cfg", "app")
	require.True(t, ok)
	assert.Equal(t, "app.config.json", rel)
}

func TestResolveCandidate_FallsBackToLaterPatterns(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/cfg/.apprc", []byte("a: 1\n"), 0o644))

	rel, ok := ResolveCandidate(fsx.Afero{FS: fs}, "/cfg", "app")
	require.True(t, ok)
	assert.Equal(t, ".apprc", rel)
}

func TestResolveCandidate_NoneReadable(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, ok := ResolveCandidate(fsx.Afero{FS: fs}, "/cfg", "app")
	assert.False(t, ok)
}
