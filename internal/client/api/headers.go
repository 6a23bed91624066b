package api

import "net/http"

const (
	// HomeOrigin значение Origin для всех запросов
	HomeOrigin = "https://www.icloud.com"
	// HomeReferer значение Referer для всех запросов
	HomeReferer = "https://www.icloud.com/"

	widgetKey = "d39ba9916b7251055b22c7f910e2ea796ee65e98b2ddecea8f5dde8d9d1a815d"
)

// AuthHeaders фиксированный набор заголовков запросов аутентификации
func (c *Client) AuthHeaders() http.Header {
	h := http.Header{}
	h.Set("Accept", "*/*")
	h.Set("Content-Type", "application/json")
	h.Set("X-Apple-OAuth-Client-Id", widgetKey)
	h.Set("X-Apple-OAuth-Client-Type", "firstPartyAuth")
	h.Set("X-Apple-OAuth-Redirect-URI", HomeOrigin)
	h.Set("X-Apple-OAuth-Require-Grant-Code", "true")
	h.Set("X-Apple-OAuth-Response-Mode", "web_message")
	h.Set("X-Apple-OAuth-Response-Type", "code")
	h.Set("X-Apple-OAuth-State", c.ClientID())
	h.Set("X-Apple-Widget-Key", widgetKey)

	if scnt := c.Session(KeyScnt); scnt != "" {
		h.Set("scnt", scnt)
	}
	if id := c.Session(KeySessionID); id != "" {
		h.Set("X-Apple-ID-Session-Id", id)
	}
	return h
}
