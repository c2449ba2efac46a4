package mime

import "strings"

type MIME = string

const (
	Plain MIME = "text/plain"
	HTML  MIME = "text/html"
	JSON  MIME = "application/json"
)

// Complies returns whether two MIMEs are compatible. Empty MIME is
// considered compatible with any other MIME
func Complies(mime MIME, with string) bool {
	// get rid of parameters if any
	with, _, _ = strings.Cut(with, ";")
	with = strings.TrimSpace(with)
	return len(with) == 0 || with == mime
}
