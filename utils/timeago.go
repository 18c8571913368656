package utils

import (
	"fmt"
	"time"
)

// FormatTimeAgo renders t relative to now for dashboard lists.
func FormatTimeAgo(t, now time.Time) string {
	seconds := int64(now.Sub(t) / time.Second)

	switch {
	case seconds < 60:
		return "Just now"
	case seconds < 3600:
		return fmt.Sprintf("%d minutes ago", seconds/60)
	case seconds < 86400:
		return fmt.Sprintf("%d hours ago", seconds/3600)
	case seconds < 172800:
		return "Yesterday"
	case seconds < 604800:
		return fmt.Sprintf("%d days ago", seconds/86400)
	case seconds < 2592000:
		return fmt.Sprintf("%d weeks ago", seconds/604800)
	default:
		return fmt.Sprintf("%d months ago", seconds/2592000)
	}
}
