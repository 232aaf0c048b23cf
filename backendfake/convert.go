package backendfake

import (
	"strconv"
	"time"
)

// isoLayout matches the naive timestamps the backend serialises.
const isoLayout = "2006-01-02T15:04:05.000000"

func itoa(i int) string {
	return strconv.Itoa(i)
}

func atoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}

// toInt accepts JSON numbers and numeric strings.
func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		return atoi(n)
	case int:
		return n
	}
	return 0
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	case int:
		return float64(n), true
	}
	return 0, false
}

func isoformat(t time.Time) string {
	return t.UTC().Format(isoLayout)
}

func isoformatPtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return isoformat(*t)
}
