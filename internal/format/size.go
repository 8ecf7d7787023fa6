package format

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

const sizeUnits = "bkmgtpezy"

var sizeRe = regexp.MustCompile(`(?i)^\s*([0-9.]+)\s*([bkmgtpezy]b?)?\s*$`)

// ParseSize converts a human file size such as "1.5k" or "20 MB" into bytes.
// Each unit step is a power of 1024.
func ParseSize(s string) (int64, error) {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	val, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}

	if m[2] != "" {
		exp := strings.IndexByte(sizeUnits, strings.ToLower(m[2])[0])
		val *= math.Pow(1024, float64(exp))
	}
	if val >= math.MaxInt64 {
		return 0, fmt.Errorf("size %q is too large", s)
	}

	return int64(val), nil
}

// FormatSize renders bytes with a binary unit, e.g. "1.5 KiB"
func FormatSize(bytes float64) string {
	if bytes < 1024 && bytes > -1024 {
		return fmt.Sprintf("%d B", int64(bytes))
	}

	units := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB", "ZiB", "YiB"}
	val := bytes
	unit := ""
	for _, u := range units {
		val /= 1024
		unit = u
		if math.Abs(val) < 1024 {
			break
		}
	}

	return strconv.FormatFloat(val, 'f', 1, 64) + " " + unit
}
