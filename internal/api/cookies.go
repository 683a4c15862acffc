package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
)

// storedCookie is the on-disk form of a session cookie. Only name and
// value matter; the backend session cookie carries no expiry the
// client needs to honor.
type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// loadCookies seeds the jar from the cookie file, if one exists.
func (c *Client) loadCookies() {
	if c.cookiePath == "" {
		return
	}

	data, err := os.ReadFile(c.cookiePath)
	if err != nil {
		return
	}

	var stored []storedCookie
	if err := json.Unmarshal(data, &stored); err != nil {
		c.logger.Warn("ignoring malformed cookie file", "path", c.cookiePath)
		return
	}

	cookies := make([]*http.Cookie, 0, len(stored))
	for _, s := range stored {
		cookies = append(cookies, &http.Cookie{Name: s.Name, Value: s.Value})
	}
	c.httpClient.Jar.SetCookies(c.base, cookies)
}

// saveCookies writes the jar's cookies for the backend to disk so a
// login survives into later invocations.
func (c *Client) saveCookies() error {
	if c.cookiePath == "" {
		return nil
	}

	cookies := c.httpClient.Jar.Cookies(c.base)
	stored := make([]storedCookie, 0, len(cookies))
	for _, cookie := range cookies {
		stored = append(stored, storedCookie{Name: cookie.Name, Value: cookie.Value})
	}

	data, err := json.MarshalIndent(stored, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.cookiePath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.cookiePath, data, 0o600)
}

// dropCookies removes the stored session cookie.
func (c *Client) dropCookies() error {
	if c.cookiePath == "" {
		return nil
	}
	if err := os.Remove(c.cookiePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
