package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"

	"github.com/iudanet/cardsync/internal/fsutil"
)

// storedCookie cookie в файле сессии
type storedCookie struct {
	Expires  time.Time `json:"expires,omitzero"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Domain   string    `json:"domain"`
	Path     string    `json:"path"`
	Secure   bool      `json:"secure,omitempty"`
	HTTPOnly bool      `json:"http_only,omitempty"`
	HostOnly bool      `json:"host_only,omitempty"`
}

func (c storedCookie) key() string {
	return c.Domain + ";" + c.Path + ";" + c.Name
}

func (c storedCookie) expired(now time.Time) bool {
	return !c.Expires.IsZero() && !c.Expires.After(now)
}

// PersistentJar http.CookieJar, который умеет сохраняться в файл.
// Сессионные cookies тоже сохраняются.
type PersistentJar struct {
	jar     *cookiejar.Jar
	cookies map[string]storedCookie
	path    string
	mu      sync.Mutex
}

var _ http.CookieJar = (*PersistentJar)(nil)

// NewPersistentJar создает jar и загружает cookies из файла, если он есть
func NewPersistentJar(path string) (*PersistentJar, error) {
	j := &PersistentJar{path: path}
	if err := j.reset(); err != nil {
		return nil, err
	}
	if err := j.load(); err != nil {
		return nil, err
	}
	return j, nil
}

func (j *PersistentJar) reset() error {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return fmt.Errorf("failed to create cookie jar: %w", err)
	}
	j.jar = jar
	j.cookies = make(map[string]storedCookie)
	return nil
}

// SetCookies реализует http.CookieJar
func (j *PersistentJar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	defer j.mu.Unlock()

	j.jar.SetCookies(u, cookies)
	now := time.Now()
	for _, c := range cookies {
		stored := storedCookie{
			Name:     c.Name,
			Value:    c.Value,
			Domain:   strings.TrimPrefix(strings.ToLower(c.Domain), "."),
			Path:     c.Path,
			Secure:   c.Secure,
			HTTPOnly: c.HttpOnly,
		}
		if stored.Domain == "" {
			stored.Domain = u.Hostname()
			stored.HostOnly = true
		}
		if stored.Path == "" || !strings.HasPrefix(stored.Path, "/") {
			stored.Path = defaultCookiePath(u.Path)
		}

		switch {
		case c.MaxAge < 0:
			delete(j.cookies, stored.key())
			continue
		case c.MaxAge > 0:
			stored.Expires = now.Add(time.Duration(c.MaxAge) * time.Second)
		case !c.Expires.IsZero():
			stored.Expires = c.Expires
		}
		if stored.expired(now) {
			delete(j.cookies, stored.key())
			continue
		}
		j.cookies[stored.key()] = stored
	}
}

// Cookies реализует http.CookieJar
func (j *PersistentJar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.jar.Cookies(u)
}

// Save записывает cookies в файл
func (j *PersistentJar) Save() error {
	j.mu.Lock()
	now := time.Now()
	list := make([]storedCookie, 0, len(j.cookies))
	for _, c := range j.cookies {
		if !c.expired(now) {
			list = append(list, c)
		}
	}
	j.mu.Unlock()

	sort.Slice(list, func(a, b int) bool {
		return list[a].key() < list[b].key()
	})

	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode cookies: %w", err)
	}
	return fsutil.WriteFileAtomic(j.path, data, filePerm)
}

// Clear забывает все cookies
func (j *PersistentJar) Clear() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.reset()
}

func (j *PersistentJar) load() error {
	data, err := os.ReadFile(j.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read cookie file: %w", err)
	}

	var list []storedCookie
	if err := json.Unmarshal(data, &list); err != nil {
		return fmt.Errorf("failed to decode cookie file: %w", err)
	}

	now := time.Now()
	for _, c := range list {
		if c.expired(now) {
			continue
		}
		cookie := &http.Cookie{
			Name:     c.Name,
			Value:    c.Value,
			Path:     c.Path,
			Expires:  c.Expires,
			Secure:   c.Secure,
			HttpOnly: c.HTTPOnly,
		}
		if !c.HostOnly {
			cookie.Domain = c.Domain
		}
		u := &url.URL{Scheme: "https", Host: c.Domain, Path: c.Path}
		j.jar.SetCookies(u, []*http.Cookie{cookie})
		j.cookies[c.key()] = c
	}
	return nil
}

// defaultCookiePath путь cookie по умолчанию (RFC 6265, 5.1.4)
func defaultCookiePath(p string) string {
	if p == "" || p[0] != '/' {
		return "/"
	}
	dir := path.Dir(p)
	if dir == "." {
		return "/"
	}
	return dir
}
