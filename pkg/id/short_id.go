package id

import "github.com/teris-io/shortid"

// ShortID generates a short url-safe id, used for log correlation.
// Falls back to an empty string if generation fails.
func ShortID() string {
	sid, err := shortid.Generate()
	if err != nil {
		return ""
	}
	return sid
}
