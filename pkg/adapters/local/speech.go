package local

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aretw0/nova/internal/logging"
	"github.com/aretw0/nova/pkg/ports"
)

// Stock values of the speech engines, at pitch and rate 1.0.
const (
	espeakPitch = 50
	baseWPM     = 175
)

// speechCommands are looked up in order by DetectSpeechCommand.
var speechCommands = []string{"espeak-ng", "espeak", "say"}

// DetectSpeechCommand returns the first speech binary found in PATH.
func DetectSpeechCommand() (string, bool) {
	for _, name := range speechCommands {
		if path, err := exec.LookPath(name); err == nil {
			return path, true
		}
	}
	return "", false
}

// Speaker speaks through an external binary (espeak, espeak-ng or say).
// Starting an utterance kills the one in progress.
type Speaker struct {
	command string
	pitch   float64
	rate    float64
	voice   string
	logger  *slog.Logger

	mu      sync.Mutex
	current *exec.Cmd
	done    chan struct{}
}

var _ ports.VoiceAnnouncer = (*Speaker)(nil)

// SpeakerOption configures a Speaker.
type SpeakerOption func(*Speaker)

// WithPitch scales the engine's default pitch. 1.0 keeps it.
func WithPitch(pitch float64) SpeakerOption {
	return func(s *Speaker) { s.pitch = pitch }
}

// WithRate scales the engine's default speaking rate. 1.0 keeps it.
func WithRate(rate float64) SpeakerOption {
	return func(s *Speaker) { s.rate = rate }
}

// WithVoice selects a voice by the engine's own name for it.
func WithVoice(voice string) SpeakerOption {
	return func(s *Speaker) { s.voice = voice }
}

// WithSpeakerLogger sets the logger for failed utterances.
func WithSpeakerLogger(logger *slog.Logger) SpeakerOption {
	return func(s *Speaker) { s.logger = logger }
}

// NewSpeaker creates a speaker running command.
func NewSpeaker(command string, opts ...SpeakerOption) *Speaker {
	s := &Speaker{
		command: command,
		pitch:   1,
		rate:    1,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Speaker) isSay() bool {
	return filepath.Base(s.command) == "say"
}

// Args returns the command line for text.
func (s *Speaker) Args(text string) []string {
	wpm := int(baseWPM * s.rate)
	if s.isSay() {
		args := []string{"-r", fmt.Sprint(wpm)}
		if s.voice != "" {
			args = append(args, "-v", s.voice)
		}
		return append(args, text)
	}

	pitch := clamp(int(espeakPitch*s.pitch), 0, 99)
	args := []string{"-p", fmt.Sprint(pitch), "-s", fmt.Sprint(clamp(wpm, 80, 450))}
	if s.voice != "" {
		args = append(args, "-v", s.voice)
	}
	return append(args, text)
}

// Speak starts saying text. Failures are logged, never returned.
func (s *Speaker) Speak(ctx context.Context, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()

	cmd := exec.Command(s.command, s.Args(text)...)
	if err := cmd.Start(); err != nil {
		s.logger.Warn("speech failed to start", "command", s.command, "err", err)
		return
	}
	done := make(chan struct{})
	s.current, s.done = cmd, done
	go func() {
		_ = cmd.Wait()
		close(done)
	}()
}

// Cancel stops the utterance in progress and waits for the process to exit.
func (s *Speaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Speaker) cancelLocked() {
	if s.current == nil {
		return
	}
	select {
	case <-s.done:
	default:
		_ = s.current.Process.Kill()
		<-s.done
	}
	s.current, s.done = nil, nil
}

// Speaking reports whether an utterance is still running.
func (s *Speaker) Speaking() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// ListVoices lists the voices known to the speech command.
func ListVoices(ctx context.Context, command string) ([]string, error) {
	say := filepath.Base(command) == "say"
	var cmd *exec.Cmd
	if say {
		cmd = exec.CommandContext(ctx, command, "-v", "?")
	} else {
		cmd = exec.CommandContext(ctx, command, "--voices")
	}
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("failed to list voices: %w", err)
	}
	if say {
		return parseSayVoices(string(out)), nil
	}
	return parseEspeakVoices(string(out)), nil
}

// SelectVoice returns the first preferred voice the engine has, matched
// case-insensitively. It returns "" (the engine default) when none matches.
func SelectVoice(available, preferred []string) string {
	for _, want := range preferred {
		for _, have := range available {
			if strings.EqualFold(want, have) {
				return have
			}
		}
	}
	return ""
}

// parseSayVoices reads `say -v ?`: "Samantha   en_US  # Hello, my name is Samantha."
func parseSayVoices(out string) []string {
	var voices []string
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		line := sc.Text()
		if i := strings.Index(line, "#"); i >= 0 {
			line = line[:i]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		// Names may contain spaces; the locale is the last field.
		voices = append(voices, strings.Join(fields[:len(fields)-1], " "))
	}
	return voices
}

// parseEspeakVoices reads `espeak --voices`:
// "Pty Language       Age/Gender VoiceName          File                 Other Languages"
func parseEspeakVoices(out string) []string {
	var voices []string
	sc := bufio.NewScanner(strings.NewReader(out))
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			continue
		}
		voices = append(voices, fields[3])
	}
	return voices
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
