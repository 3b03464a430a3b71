package cookiefile

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"browser-automation/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSave(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out", "cookies.json")
	cookies := []entity.Cookie{
		{Name: "session", Value: "abc", Domain: ".example.com", Path: "/", Expires: -1, HTTPOnly: true, Secure: true, SameSite: "Lax"},
	}

	path, err := NewWriter(target).Save(cookies)
	require.NoError(t, err)
	assert.Equal(t, target, path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "[\n  {"))
	assert.Contains(t, string(raw), `"httpOnly": true`)

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cookies, loaded)
}

func TestSave_EmptyWritesArray(t *testing.T) {
	target := filepath.Join(t.TempDir(), "cookies.json")

	_, err := NewWriter(target).Save(nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(raw))
}
