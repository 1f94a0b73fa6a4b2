package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Color palette.
var (
	ColorSuccess   = lipgloss.Color("#00D26A") // green  — success
	ColorWarning   = lipgloss.Color("#FFB800") // yellow — warning
	ColorError     = lipgloss.Color("#FF4444") // red    — error
	ColorAddress   = lipgloss.Color("#00B4D8") // cyan   — addresses, hashes
	ColorValue     = lipgloss.Color("#FFFFFF") // white bold — ETH values
	ColorMeta      = lipgloss.Color("#555555") // dim gray  — timestamps, metadata
	ColorBorder    = lipgloss.Color("#1E3A5F") // dark blue — UI chrome
	ColorAccent    = lipgloss.Color("#9B5DE5") // purple    — titles, bars
	ColorHighlight = lipgloss.Color("#F15BB5") // pink      — headers
)

// Base styles.
var (
	StyleSuccess = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorWarning).Bold(true)
	StyleError   = lipgloss.NewStyle().Foreground(ColorError).Bold(true)
	StyleAddress = lipgloss.NewStyle().Foreground(ColorAddress)
	StyleValue   = lipgloss.NewStyle().Foreground(ColorValue).Bold(true)
	StyleMeta    = lipgloss.NewStyle().Foreground(ColorMeta)
	StyleBar     = lipgloss.NewStyle().Foreground(ColorAccent)

	StyleBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	StyleTitle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)
)

// Success formats a success message.
func Success(msg string) string { return StyleSuccess.Render("✓ " + msg) }

// Warn formats a warning message.
func Warn(msg string) string { return StyleWarning.Render("⚠ " + msg) }

// Err formats an error message.
func Err(msg string) string { return StyleError.Render("✗ " + msg) }

// Addr formats an address.
func Addr(a string) string { return StyleAddress.Render(a) }

// Val formats a value.
func Val(v string) string { return StyleValue.Render(v) }

// Meta formats metadata text.
func Meta(m string) string { return StyleMeta.Render(m) }

// TruncateAddr shortens an address for display: 0x1234…5678.
func TruncateAddr(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "…" + addr[len(addr)-4:]
}

// FormatETH prints an ETH amount with 8 decimals.
func FormatETH(v float64) string { return fmt.Sprintf("%.8f", v) }

// FormatGwei prints a gas price with 2 decimals.
func FormatGwei(v float64) string { return fmt.Sprintf("%.2f", v) }
