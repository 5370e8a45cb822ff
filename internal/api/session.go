package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/nhle/taskdeck/internal/credential"
)

// Session persistence: the browser keeps its session cookie across
// reloads, so the terminal client keeps its own in the OS keyring. Only
// the credential is stored; entity state never leaves the in-memory
// cache.

// sessionKey returns the keyring key for the client's API host.
func (c *Client) sessionKey() (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("parsing base URL: %w", err)
	}
	return "session:" + u.Host, nil
}

// SaveSession stores the session cookies currently held in the jar.
// Call it after a successful login or register.
func (c *Client) SaveSession() error {
	key, err := c.sessionKey()
	if err != nil {
		return err
	}

	u, _ := url.Parse(c.baseURL)
	cookies := c.httpClient.Jar.Cookies(u)
	if len(cookies) == 0 {
		// Nothing to persist; drop any stale entry.
		_ = credential.Delete(key)
		return nil
	}

	pairs := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		pairs = append(pairs, ck.Name+"="+ck.Value)
	}
	return credential.Set(key, strings.Join(pairs, "; "))
}

// RestoreSession loads previously saved session cookies into the jar.
// A missing entry is not an error; the next request simply gets a 401
// and the UI falls back to the login screen.
func (c *Client) RestoreSession() error {
	key, err := c.sessionKey()
	if err != nil {
		return err
	}

	raw, err := credential.Get(key)
	if err != nil || raw == "" {
		return nil
	}

	header := http.Header{}
	header.Add("Cookie", raw)
	req := http.Request{Header: header}

	u, _ := url.Parse(c.baseURL)
	c.httpClient.Jar.SetCookies(u, req.Cookies())
	return nil
}

// ClearSession drops the stored credential and the in-memory cookies.
// Used on logout.
func (c *Client) ClearSession() error {
	key, err := c.sessionKey()
	if err != nil {
		return err
	}
	_ = credential.Delete(key)

	// cookiejar has no removal API; swap in a fresh jar.
	return c.resetJar()
}
