package headers

import (
	"fmt"
	"net/http"
	"strings"
)

// Parse converts "Key: Value" strings into request headers.
// Repeated keys accumulate values.
func Parse(h []string) (http.Header, error) {
	out := make(http.Header, len(h))
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" || strings.ContainsAny(key, " \t") {
			return nil, fmt.Errorf("invalid header %q (want \"Key: Value\")", hdr)
		}
		out.Add(key, strings.TrimSpace(value))
	}
	return out, nil
}

// Apply sets every header in h on req, replacing existing values
func Apply(req *http.Request, h http.Header) {
	for key, values := range h {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
}
