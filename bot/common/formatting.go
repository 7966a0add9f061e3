package common

import (
	"fmt"
	"strings"
	"time"
)

// EmbedColor is the accent color shared by every embed the bot sends
const EmbedColor = 0x5754d0

// DefaultAvatarURL is Discord's fallback avatar, used when a user or guild
// has no icon of their own
const DefaultAvatarURL = "https://cdn.discordapp.com/embed/avatars/0.png"

// FormatCounter formats a score with thousand separators
func FormatCounter(counter int64) string {
	str := fmt.Sprintf("%d", counter)

	n := len(str)
	if n <= 3 {
		return str
	}

	var result strings.Builder
	for i, digit := range str {
		if i > 0 && (n-i)%3 == 0 {
			result.WriteRune(',')
		}
		result.WriteRune(digit)
	}

	return result.String()
}

// FormatUptime renders a duration as "3d 4h 12m"
func FormatUptime(d time.Duration) string {
	d = d.Round(time.Minute)
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// AvatarURL returns a usable avatar link, falling back to Discord's default
func AvatarURL(url string) string {
	if url == "" {
		return DefaultAvatarURL
	}
	return url
}
