// Package session extracts the caller's authentication credential from an
// inbound request and turns it into the headers every outbound gateway
// call must carry. The credential is opaque: it is forwarded verbatim,
// never inspected or persisted beyond the request's lifetime.
package session

import "net/http"

const DefaultCookieName = "JSESSIONID"

// Credential is the session token bound to one inbound request. The zero
// value means no credential was presented; calls still proceed and the
// backend decides whether to reject them.
type Credential struct {
	cookieName  string
	cookieValue string
	bearer      string
}

func (c Credential) Present() bool {
	return c.cookieValue != "" || c.bearer != ""
}

// Headers builds the header set for one outbound call. The cookie header
// is omitted entirely when the credential is absent rather than sent
// empty. withBody adds the JSON content type for body-carrying calls.
func (c Credential) Headers(withBody bool) http.Header {
	h := http.Header{}
	if c.cookieValue != "" {
		h.Set("Cookie", c.cookieName+"="+c.cookieValue)
	}
	if c.bearer != "" {
		h.Set("Authorization", c.bearer)
	}
	if withBody {
		h.Set("Content-Type", "application/json")
	}
	return h
}

// Extractor pulls the named session cookie off inbound requests.
type Extractor struct {
	cookieName string
}

func NewExtractor(cookieName string) *Extractor {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Extractor{cookieName: cookieName}
}

// Extract reads the session cookie and, when present, the Authorization
// header from r. It does not mutate the request. A missing cookie is not
// an error; the returned credential is simply absent.
func (e *Extractor) Extract(r *http.Request) Credential {
	cred := Credential{cookieName: e.cookieName}
	if c, err := r.Cookie(e.cookieName); err == nil && c.Value != "" {
		cred.cookieValue = c.Value
	}
	if auth := r.Header.Get("Authorization"); auth != "" {
		cred.bearer = auth
	}
	return cred
}
