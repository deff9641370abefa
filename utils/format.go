package utils

import (
	"fmt"
	"math"
	"time"
)

// MessageType selects the color of a terminal message.
type MessageType int

// The message types printed by the CLI.
const (
	DefaultMessage MessageType = iota
	SuccessMessage
	ErrorMessage
	StatusMessage
)

// ANSI color codes of the message types.
const (
	DefaultColor = "\x1b[0m"
	StatusColor  = "\x1b[36m"
	SuccessColor = "\x1b[32m"
	ErrorColor   = "\x1b[31m"
)

var messageColors = map[MessageType]string{
	DefaultMessage: DefaultColor,
	SuccessMessage: SuccessColor,
	ErrorMessage:   ErrorColor,
	StatusMessage:  StatusColor,
}

// DecorateText wraps s in the color of the message type and resets the color afterwards.
// Unknown message types are returned unchanged.
func DecorateText(s string, msgType MessageType) string {
	color, ok := messageColors[msgType]
	if !ok {
		return s
	}
	return color + s + DefaultColor
}

// FormatTime formats a duration as days, hours, minutes and seconds,
// omitting the leading units which are zero.
func FormatTime(d time.Duration) string {
	secs := math.Mod(d.Seconds(), 60)
	mins := int64(d.Minutes()) % 60
	hours := int64(d.Hours())

	switch {
	case d < time.Minute:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d < time.Hour:
		return fmt.Sprintf("%dm %.2fs", mins, secs)
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh %dm %.2fs", hours, mins, secs)
	}
	return fmt.Sprintf("%dd %dh %dm %.2fs", hours/24, hours%24, mins, secs)
}
