package temporal

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseTimestamp converts "MM:SS" or "H:MM:SS" into a duration from the
// start of the lecture. Minute and second fields may not exceed 59.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q: expected MM:SS or H:MM:SS", s)
	}
	fields := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid timestamp %q: non-numeric field %q", s, p)
		}
		fields[i] = n
	}

	var h, m, sec int
	if len(fields) == 3 {
		h, m, sec = fields[0], fields[1], fields[2]
	} else {
		m, sec = fields[0], fields[1]
	}
	if m > 59 || sec > 59 {
		return 0, fmt.Errorf("invalid timestamp %q: minutes and seconds must be below 60", s)
	}
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatTimestamp renders a duration as "MM:SS", or "H:MM:SS" when the
// offset reaches an hour.
func FormatTimestamp(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
