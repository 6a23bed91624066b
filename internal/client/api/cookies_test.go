package api

import (
	"net/http"
	"net/url"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cookieNames(cookies []*http.Cookie) []string {
	names := make([]string, 0, len(cookies))
	for _, c := range cookies {
		names = append(names, c.Name)
	}
	return names
}

func TestPersistentJar_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies")
	u, err := url.Parse("https://setup.example.com/setup/ws/1/accountLogin")
	require.NoError(t, err)

	jar, err := NewPersistentJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{
		{Name: "session", Value: "s1", Path: "/"},
		{Name: "domain", Value: "d1", Domain: ".example.com", Path: "/"},
		{Name: "persistent", Value: "p1", Path: "/", MaxAge: 3600},
		{Name: "old", Value: "o1", Path: "/", Expires: time.Now().Add(-time.Hour)},
	})
	require.NoError(t, jar.Save())

	restored, err := NewPersistentJar(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"session", "domain", "persistent"}, cookieNames(restored.Cookies(u)))

	// domain cookie виден на соседнем хосте, host-only нет
	other, err := url.Parse("https://contacts.example.com/co")
	require.NoError(t, err)
	assert.Equal(t, []string{"domain"}, cookieNames(restored.Cookies(other)))
}

func TestPersistentJar_DeleteByMaxAge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cookies")
	u, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	jar, err := NewPersistentJar(path)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "1", Path: "/"}})
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "", Path: "/", MaxAge: -1}})
	require.NoError(t, jar.Save())

	restored, err := NewPersistentJar(path)
	require.NoError(t, err)
	assert.Empty(t, restored.Cookies(u))
}

func TestPersistentJar_Clear(t *testing.T) {
	u, err := url.Parse("https://example.com/")
	require.NoError(t, err)

	jar, err := NewPersistentJar(filepath.Join(t.TempDir(), "cookies"))
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{{Name: "a", Value: "1", Path: "/"}})
	require.NoError(t, jar.Clear())
	assert.Empty(t, jar.Cookies(u))
}

func TestDefaultCookiePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "", want: "/"},
		{in: "/", want: "/"},
		{in: "/foo", want: "/"},
		{in: "/foo/bar", want: "/foo"},
		{in: "relative", want: "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, defaultCookiePath(tt.in), tt.in)
	}
}
