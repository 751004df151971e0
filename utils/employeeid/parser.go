package employeeid

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

var employeeIDPattern = regexp.MustCompile(`(?i)\b(EMP[- ]?\d{1,})\b`)

// ParseEmployeeID extracts an employee identifier from a decoded QR payload.
// Payloads are either verification links (".../verify/<id>"), free text
// containing an EMP-nnn token, or the bare identifier.
func ParseEmployeeID(payload string) string {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return ""
	}

	if u, err := url.Parse(payload); err == nil && u.Scheme != "" && u.Host != "" {
		dir, last := path.Split(strings.TrimRight(u.Path, "/"))
		if path.Base(strings.TrimRight(dir, "/")) == "verify" && last != "" {
			if id, err := url.PathUnescape(last); err == nil {
				return id
			}
			return last
		}
	}

	if m := employeeIDPattern.FindStringSubmatch(payload); len(m) > 1 {
		return strings.ToUpper(strings.ReplaceAll(m[1], " ", "-"))
	}

	if !strings.ContainsAny(payload, " \t\n/") {
		return payload
	}
	return ""
}
