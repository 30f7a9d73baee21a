package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Nova banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	lines := []struct {
		text  string
		color string
	}{
		{" _   _                 ", "#818cf8"},
		{"| \\ | | _____   ____ _ ", "#a78bfa"},
		{"|  \\| |/ _ \\ \\ / / _` |", "#c084fc"},
		{"| |\\  | (_) \\ V / (_| |", "#e879f9"},
		{"|_| \\_|\\___/ \\_/ \\__,_|", "#f472b6"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(out.Color(l.color)))
	}
	if v := strings.TrimSpace(version); v != "" {
		fmt.Fprintln(w, out.String("  v"+v).Faint())
	}
	fmt.Fprintln(w)
}
