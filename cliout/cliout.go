package cliout

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the human-readable format.
	FormatDefault Format = "default"
	// FormatJSON is indented JSON.
	FormatJSON Format = "json"
)

// ErrInvalidFormat is returned by SetFormat for unknown formats.
var ErrInvalidFormat = errors.New("invalid output format")

// ANSI codes.
const (
	Reset       = "\033[0m"
	Bold        = "\033[1m"
	Dim         = "\033[2m"
	Cyan        = "\033[36m"
	BrightRed   = "\033[91m"
	BrightGreen = "\033[92m"
	BrightYell  = "\033[93m"
	BrightBlue  = "\033[94m"
)

const (
	symbolCheck   = "✓"
	symbolCross   = "✗"
	symbolWarning = "⚠"
	symbolDot     = "•"
)

var (
	mu       sync.RWMutex
	format   = FormatDefault
	writer   io.Writer
	colorSet bool
	colorOn  bool
)

// SetFormat sets the output format. An empty string selects the default.
func SetFormat(f string) error {
	mu.Lock()
	defer mu.Unlock()
	switch Format(f) {
	case FormatDefault, "":
		format = FormatDefault
	case FormatJSON:
		format = FormatJSON
	default:
		return fmt.Errorf("%w: %s (valid options: default, json)", ErrInvalidFormat, f)
	}
	return nil
}

// GetFormat returns the current output format.
func GetFormat() Format {
	mu.RLock()
	defer mu.RUnlock()
	return format
}

// IsJSON reports whether the output format is JSON.
func IsJSON() bool {
	return GetFormat() == FormatJSON
}

// SetOutput redirects output to w. A nil w restores os.Stdout.
func SetOutput(w io.Writer) {
	mu.Lock()
	writer = w
	mu.Unlock()
}

// ForceColor enables colour regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	colorSet, colorOn = true, true
	mu.Unlock()
}

// NoColor disables colour.
func NoColor() {
	mu.Lock()
	colorSet, colorOn = true, false
	mu.Unlock()
}

// ResetColor restores terminal detection.
func ResetColor() {
	mu.Lock()
	colorSet = false
	mu.Unlock()
}

func out() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	if writer != nil {
		return writer
	}
	return os.Stdout
}

func colorEnabled() bool {
	mu.RLock()
	set, on, w := colorSet, colorOn, writer
	mu.RUnlock()
	if set {
		return on
	}
	if w != nil || os.Getenv("NO_COLOR") != "" {
		return false
	}
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// paint wraps s in code when colour is enabled.
func paint(code, s string) string {
	if !colorEnabled() {
		return s
	}
	return code + s + Reset
}

// PrintJSON writes v as indented JSON.
func PrintJSON(v any) error {
	enc := json.NewEncoder(out())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Print writes data as JSON in JSON mode and calls formatter otherwise.
func Print(data any, formatter func()) error {
	if IsJSON() {
		return PrintJSON(data)
	}
	formatter()
	return nil
}

// Header prints a bold title with an underline.
func Header(text string) {
	fmt.Fprintf(out(), "\n%s\n%s\n", paint(Bold, text), strings.Repeat("=", len(text)))
}

// Section prints a section title with an item count.
func Section(text string, n int) {
	fmt.Fprintf(out(), "\n%s %s\n", paint(Cyan, text), paint(Dim, fmt.Sprintf("(%d)", n)))
}

// Success prints a message with a green check.
func Success(format string, args ...any) {
	fmt.Fprintf(out(), "%s %s\n", paint(BrightGreen, symbolCheck), fmt.Sprintf(format, args...))
}

// Error prints a message with a red cross.
func Error(format string, args ...any) {
	fmt.Fprintf(out(), "%s %s\n", paint(BrightRed, symbolCross), fmt.Sprintf(format, args...))
}

// Warning prints a message with a yellow triangle.
func Warning(format string, args ...any) {
	fmt.Fprintf(out(), "%s  %s\n", paint(BrightYell, symbolWarning), fmt.Sprintf(format, args...))
}

// Bullet prints an indented list item.
func Bullet(format string, args ...any) {
	fmt.Fprintf(out(), "  %s %s\n", symbolDot, fmt.Sprintf(format, args...))
}

// Label prints an aligned label and value.
func Label(label, value string) {
	fmt.Fprintf(out(), "   %s %s\n", paint(Dim, fmt.Sprintf("%-12s", label+":")), value)
}

// Plain prints a line without styling.
func Plain(format string, args ...any) {
	fmt.Fprintf(out(), format+"\n", args...)
}

// Hint prints dimmed hints joined by bullets.
func Hint(hints ...string) {
	if len(hints) == 0 {
		return
	}
	fmt.Fprintln(out(), paint(Dim, strings.Join(hints, " • ")))
}

// URL styles a URL.
func URL(u string) string {
	return paint(BrightBlue, u)
}

// TableRow maps column header to value.
type TableRow map[string]string

// Table prints rows under headers with padded columns.
func Table(headers []string, rows []TableRow) {
	if len(rows) == 0 {
		return
	}

	widths := make(map[string]int, len(headers))
	for _, h := range headers {
		widths[h] = len(h)
		for _, row := range rows {
			widths[h] = max(widths[h], len(row[h]))
		}
	}

	w := out()
	var b strings.Builder
	b.WriteString("   ")
	for _, h := range headers {
		fmt.Fprintf(&b, "%-*s  ", widths[h], h)
	}
	fmt.Fprintln(w, paint(Bold, strings.TrimRight(b.String(), " ")))

	b.Reset()
	b.WriteString("   ")
	for _, h := range headers {
		b.WriteString(strings.Repeat("─", widths[h]) + "  ")
	}
	fmt.Fprintln(w, strings.TrimRight(b.String(), " "))

	for _, row := range rows {
		b.Reset()
		b.WriteString("   ")
		for _, h := range headers {
			fmt.Fprintf(&b, "%-*s  ", widths[h], row[h])
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

// Newline prints a blank line.
func Newline() {
	fmt.Fprintln(out())
}
