package service

import (
	"net/url"
	"strings"
)

// Links resolves service-side names into browser-facing URLs.
type Links struct {
	PublicAPIURL    string
	PortalPublicURL string
}

// Upload is the download location of a processed document.
func (l Links) Upload(name string) string {
	return join(l.PublicAPIURL, "uploads", name)
}

// Download is the location of a bundled archive.
func (l Links) Download(name string) string {
	return join(l.PublicAPIURL, "downloads", name)
}

// Asset resolves a service-relative path such as an employee image.
func (l Links) Asset(p string) string {
	if p == "" {
		return ""
	}
	if u, err := url.Parse(p); err == nil && u.IsAbs() {
		return p
	}
	return join(l.PublicAPIURL, strings.TrimLeft(p, "/"))
}

// Verify is the public certificate page for an employee.
func (l Links) Verify(employeeID string) string {
	return join(l.PortalPublicURL, "verify", url.PathEscape(employeeID))
}

func join(base string, elems ...string) string {
	u, err := url.JoinPath(base, elems...)
	if err != nil {
		return strings.TrimRight(base, "/") + "/" + strings.Join(elems, "/")
	}
	return u
}
