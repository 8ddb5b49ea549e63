package scan

import "strings"

// ValidPayload reports whether text looks like an upload link produced by
// the backend's QR codes: it must mention the scan path and both the token
// and folder parameters.
func ValidPayload(text string) bool {
	return strings.Contains(text, "/scan") &&
		strings.Contains(text, "token=") &&
		strings.Contains(text, "folder=")
}
