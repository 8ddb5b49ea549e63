package upload

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 Bytes"},
		{-5, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1.00 KB"},
		{1536, "1.50 KB"},
		{1048575, "1024.00 KB"},
		{1048571, "1024.00 KB"},
		{1<<30 - 1, "1024.00 MB"},
		{2097152, "2.00 MB"},
		{5 * 1024 * 1024 * 1024, "5.00 GB"},
		{3 << 40, "3.00 TB"},
		{2048 << 40, "2048.00 TB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.in), "FormatFileSize(%d)", tt.in)
	}
}

func TestFormatFileSize_UnitBucketsAreMonotonic(t *testing.T) {
	units := map[string]int{"Bytes": 0, "KB": 1, "MB": 2, "GB": 3, "TB": 4}
	prev := 0
	for _, n := range []int64{0, 10, 1000, 1023, 1024, 5000, 1<<20 - 1, 1 << 20, 3 << 20, 1<<30 - 1, 1 << 30, 1 << 40} {
		s := FormatFileSize(n)
		var unit string
		for u := range units {
			if len(s) > len(u) && s[len(s)-len(u):] == u {
				unit = u
			}
		}
		assert.GreaterOrEqual(t, units[unit], prev, s)
		prev = units[unit]
	}
}

func TestFormatFileSize_StaysBelowBoundary(t *testing.T) {
	for _, tt := range []struct {
		in   int64
		unit string
	}{
		{1<<10 - 1, " Bytes"},
		{1<<20 - 1, " KB"},
		{1<<30 - 1, " MB"},
		{1<<40 - 1, " GB"},
	} {
		assert.True(t, strings.HasSuffix(FormatFileSize(tt.in), tt.unit), "FormatFileSize(%d) = %q", tt.in, FormatFileSize(tt.in))
	}
}
