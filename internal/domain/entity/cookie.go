package entity

import "strings"

// Cookie mirrors the shape browsers export (Playwright's storage state format).
type Cookie struct {
	Name     string  `json:"name"`
	Value    string  `json:"value"`
	Domain   string  `json:"domain"`
	Path     string  `json:"path"`
	Expires  float64 `json:"expires"`
	HTTPOnly bool    `json:"httpOnly"`
	Secure   bool    `json:"secure"`
	SameSite string  `json:"sameSite,omitempty"`
}

// MatchesDomain reports whether the cookie is scoped to host: same domain,
// a parent domain of host, or a subdomain of host.
func (c Cookie) MatchesDomain(host string) bool {
	host = strings.ToLower(strings.TrimPrefix(host, "."))
	domain := strings.ToLower(strings.TrimPrefix(c.Domain, "."))
	if host == "" || domain == "" {
		return false
	}
	return domain == host ||
		strings.HasSuffix(host, "."+domain) ||
		strings.HasSuffix(domain, "."+host)
}

func FilterCookies(cookies []Cookie, host string) []Cookie {
	result := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		if c.MatchesDomain(host) {
			result = append(result, c)
		}
	}
	return result
}
