package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxInputSize bounds one line of chat input.
const MaxInputSize = 1024

var (
	ErrInputTooLarge = errors.New("input exceeds maximum allowed size")
	ErrInvalidUTF8   = errors.New("input contains invalid UTF-8 sequences")
)

// SanitizeInput trims a line, rejects oversized or malformed input and strips
// control characters so they never reach the terminal or the logs.
func SanitizeInput(input string) (string, error) {
	if len(input) > MaxInputSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInputTooLarge, len(input), MaxInputSize)
	}
	if !utf8.ValidString(input) {
		return "", ErrInvalidUTF8
	}

	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r == '\t' || !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String()), nil
}

type inputResult struct {
	text string
	err  error
}

// pumpLines reads r line by line on its own goroutine, so a blocked read never
// holds up shutdown. The channel is closed after EOF or a read error.
func pumpLines(r io.Reader) <-chan inputResult {
	ch := make(chan inputResult)
	go func() {
		defer close(ch)
		reader := bufio.NewReader(r)
		for {
			text, err := reader.ReadString('\n')
			if text != "" {
				ch <- inputResult{text: text}
			}
			if err != nil {
				if !errors.Is(err, io.EOF) {
					ch <- inputResult{err: err}
				}
				return
			}
		}
	}()
	return ch
}
