package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/nova/pkg/domain"
)

// CommandKind is a chat command.
type CommandKind int

const (
	CmdSelect CommandKind = iota
	CmdActivate
	CmdBack
	CmdHide
	CmdGoTo
	CmdHelp
	CmdQuit
)

// Command is one parsed chat line.
type Command struct {
	Kind CommandKind
	// Index is zero-based, for CmdSelect.
	Index int
	// Step is the target of CmdGoTo.
	Step domain.StepName
}

// ParseCommand reads a chat line: an option number, "a", "b", "h", "goto <step>", "?" or "q".
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("empty command")
	}

	if n, err := strconv.Atoi(fields[0]); err == nil {
		if n < 1 {
			return Command{}, fmt.Errorf("option numbers start at 1")
		}
		return Command{Kind: CmdSelect, Index: n - 1}, nil
	}

	switch fields[0] {
	case "a", "activate":
		return Command{Kind: CmdActivate}, nil
	case "b", "back":
		return Command{Kind: CmdBack}, nil
	case "h", "hide":
		return Command{Kind: CmdHide}, nil
	case "g", "goto":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("usage: goto <step>")
		}
		return Command{Kind: CmdGoTo, Step: domain.StepName(fields[1])}, nil
	case "?", "help":
		return Command{Kind: CmdHelp}, nil
	case "q", "quit", "exit":
		return Command{Kind: CmdQuit}, nil
	}
	return Command{}, fmt.Errorf("unknown command %q, type ? for help", fields[0])
}

// Help is the chat help, in markdown.
const Help = `# Nova

| Input | Effect |
|-------|--------|
| ` + "`1`..`4`" + ` | pick an option |
| ` + "`a`" + ` | click the avatar |
| ` + "`b`" + ` | go back |
| ` + "`h`" + ` | hide the dialog |
| ` + "`goto <step>`" + ` | jump to a step |
| ` + "`q`" + ` | quit |
`
