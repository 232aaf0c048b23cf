package notifications

import (
	"fmt"
	"strings"
	"time"

	"github.com/jrsteele09/wepark-client/internal/utils"
)

type Notification struct {
	ID        int             `json:"notification_id"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	Read      bool            `json:"read"`
	Timestamp utils.Timestamp `json:"timestamp"`
}

// DateLayout is used by FormatTime for notifications a week or more old.
const DateLayout = "Jan 2, 2006"

// FormatTime renders ts relative to now.
func FormatTime(ts, now time.Time) string {
	diff := now.Sub(ts)
	switch {
	case diff < time.Minute:
		return "Just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff/time.Minute))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff/time.Hour))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff/(24*time.Hour)))
	}
	return ts.Format(DateLayout)
}

// First match wins.
var icons = []struct {
	keyword string
	icon    string
}{
	{"book", "🅿️"},
	{"payment", "💳"},
	{"release", "✅"},
	{"cancel", "❌"},
}

// Icon picks an icon from keywords in message.
func Icon(message string) string {
	lower := strings.ToLower(message)
	for _, i := range icons {
		if strings.Contains(lower, i.keyword) {
			return i.icon
		}
	}
	return "🔔"
}
