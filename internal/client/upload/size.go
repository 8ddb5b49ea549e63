package upload

import "fmt"

var sizeUnits = []string{"Bytes", "KB", "MB", "GB", "TB"}

// FormatFileSize renders a byte count with base-1024 units:
// "0 Bytes", "512 Bytes", "1.50 KB", "2.00 MB". The unit is picked from
// the raw count, so 1048575 stays "1024.00 KB".
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	if n < 1024 {
		return fmt.Sprintf("%d Bytes", n)
	}

	v, i := float64(n), 0
	for v >= 1024 && i < len(sizeUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.2f %s", v, sizeUnits[i])
}
