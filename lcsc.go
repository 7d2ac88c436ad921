package partdex

import (
	"strconv"
	"strings"
)

// It can be confusing whether an LCSC identifier is the string form "C12345"
// or the bare integer 12345. The cache keys rows by the integer; the API and
// the output artifact use the string form.

// FormatLCSC converts a numeric identifier to the "C"-prefixed string form.
func FormatLCSC(id int64) string {
	return "C" + strconv.FormatInt(id, 10)
}

// ParseLCSC converts either form of an LCSC identifier to the numeric form.
func ParseLCSC(s string) (int64, error) {
	trimmed := strings.TrimPrefix(s, "C")
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, Errorf(EINVALID, "invalid LCSC identifier %q", s)
	}
	return id, nil
}
