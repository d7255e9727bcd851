package combination

import (
	"fmt"
	"strings"

	"github.com/arloliu/zbewalgo/errs"
)

// CommandKind is the verb of an administrative command.
type CommandKind uint8

const (
	CommandAdd   CommandKind = iota + 1 // CommandAdd appends one combination.
	CommandSet                          // CommandSet replaces the table with one combination.
	CommandReset                        // CommandReset reinstalls the defaults.
)

// String returns the command keyword.
func (k CommandKind) String() string {
	switch k {
	case CommandAdd:
		return "add"
	case CommandSet:
		return "set"
	case CommandReset:
		return "reset"
	default:
		return "Unknown"
	}
}

// Command is a parsed administrative command.
type Command struct {
	Kind        CommandKind
	Combination Combination // unset for CommandReset
}

// ParseCommand parses "add <pipeline>", "set <pipeline>" or "reset".
func ParseCommand(r Resolver, line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{}, fmt.Errorf("%w: empty command", errs.ErrInvalidCommand)
	}

	var cmd Command
	switch fields[0] {
	case "add":
		cmd.Kind = CommandAdd
	case "set":
		cmd.Kind = CommandSet
	case "reset":
		if len(fields) != 1 {
			return Command{}, fmt.Errorf("%w: reset takes no argument", errs.ErrInvalidCommand)
		}

		return Command{Kind: CommandReset}, nil
	default:
		return Command{}, fmt.Errorf("%w: unknown verb %q", errs.ErrInvalidCommand, fields[0])
	}

	if len(fields) != 2 {
		return Command{}, fmt.Errorf("%w: %s needs exactly one pipeline", errs.ErrInvalidCommand, cmd.Kind)
	}
	c, err := Parse(r, fields[1])
	if err != nil {
		return Command{}, err
	}
	cmd.Combination = c

	return cmd, nil
}

// Apply executes the command on t and reports whether the table changed.
// Adding a combination that is already installed is not an error.
func (c Command) Apply(t *Table) (bool, error) {
	switch c.Kind {
	case CommandAdd:
		return t.Add(c.Combination)
	case CommandSet:
		if err := t.ReplaceAll([]Combination{c.Combination}); err != nil {
			return false, err
		}

		return true, nil
	case CommandReset:
		t.Reset()
		return true, nil
	default:
		return false, fmt.Errorf("%w: kind %d", errs.ErrInvalidCommand, c.Kind)
	}
}

// Format renders the command back to text.
func (c Command) Format(n Namer) string {
	if c.Kind == CommandReset {
		return c.Kind.String()
	}

	return c.Kind.String() + " " + c.Combination.Format(n)
}

// Exec parses line and applies it to t.
func Exec(t *Table, r Resolver, line string) (Command, bool, error) {
	cmd, err := ParseCommand(r, line)
	if err != nil {
		return Command{}, false, err
	}
	changed, err := cmd.Apply(t)

	return cmd, changed, err
}
