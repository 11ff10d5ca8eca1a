// Package console maps typed commands to handlers and runs them on a
// single-threaded event loop.
package console

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/pavelanni/portfolio/internal/i18n"
)

// ErrQuit stops the console.
var ErrQuit = errors.New("quit")

// HandlerFunc runs one command. args excludes the command name.
type HandlerFunc func(ctx context.Context, args []string) error

type command struct {
	names  []string
	helpID string
	fn     HandlerFunc
}

// Console is a dispatch table from command names to handlers.
type Console struct {
	out      io.Writer
	loc      *i18n.Localizer
	loop     *Loop
	commands map[string]*command
	order    []*command
	fallback HandlerFunc
	expect   func(ctx context.Context, line string) error
}

// New creates a Console writing replies to out.
func New(out io.Writer, loc *i18n.Localizer) *Console {
	c := &Console{
		out:      out,
		loc:      loc,
		loop:     NewLoop(),
		commands: make(map[string]*command),
	}
	c.Handle([]string{"help", "?"}, "HelpHelp", c.help)
	c.Handle([]string{"quit", "exit", "q"}, "HelpQuit", func(context.Context, []string) error {
		c.Println(c.loc.T("Goodbye"))
		return ErrQuit
	})
	return c
}

// Handle registers fn under every name in names. The first name is shown in help.
func (c *Console) Handle(names []string, helpID string, fn HandlerFunc) {
	cmd := &command{names: names, helpID: helpID, fn: fn}
	for _, n := range names {
		c.commands[strings.ToLower(n)] = cmd
	}
	c.order = append(c.order, cmd)
}

// Fallback handles lines whose first word is not a command. args holds every word.
func (c *Console) Fallback(fn HandlerFunc) {
	c.fallback = fn
}

// Expect routes the next non-empty line to fn instead of the dispatch table.
func (c *Console) Expect(fn func(ctx context.Context, line string) error) {
	c.expect = fn
}

// Loop returns the event loop, which also schedules delayed continuations.
func (c *Console) Loop() *Loop { return c.loop }

// Localizer returns the console's localizer.
func (c *Console) Localizer() *i18n.Localizer { return c.loc }

// Out returns the reply writer.
func (c *Console) Out() io.Writer { return c.out }

// Println writes a reply line.
func (c *Console) Println(a ...any) {
	fmt.Fprintln(c.out, a...)
}

// Table writes rows as aligned columns.
func (c *Console) Table(header []string, rows [][]string) {
	tw := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}

// Run processes lines from in until quit, end of input, or ctx is done.
func (c *Console) Run(ctx context.Context, in io.Reader) error {
	return c.loop.Run(ctx, in, c.Dispatch)
}

// Dispatch runs the handler for one input line. Handler errors other than
// ErrQuit are reported and do not stop the console.
func (c *Console) Dispatch(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	if fn := c.expect; fn != nil {
		c.expect = nil
		return c.report(fn(ctx, line))
	}

	args, err := Split(line)
	if err != nil {
		c.Println(err)
		return nil
	}
	name := strings.ToLower(args[0])
	cmd, ok := c.commands[name]
	switch {
	case ok:
		slog.Debug("dispatch", "command", name, "args", len(args)-1)
		return c.report(cmd.fn(ctx, args[1:]))
	case c.fallback != nil:
		return c.report(c.fallback(ctx, args))
	}
	c.Println(c.loc.Td("UnknownCommand", map[string]any{"Name": args[0]}))
	return nil
}

func (c *Console) report(err error) error {
	if err == nil || errors.Is(err, ErrQuit) {
		return err
	}
	slog.Error("command failed", "error", err)
	c.Println(err)
	return nil
}

func (c *Console) help(context.Context, []string) error {
	c.Println(c.loc.T("Help"))
	rows := make([][]string, 0, len(c.order))
	for _, cmd := range c.order {
		rows = append(rows, []string{"  " + strings.Join(cmd.names, ", "), c.loc.T(cmd.helpID)})
	}
	// Built-ins are registered first but read better last.
	rows = append(slices.Clone(rows[2:]), rows[:2]...)
	tw := tabwriter.NewWriter(c.out, 0, 0, 3, ' ', 0)
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	return tw.Flush()
}

// ErrUnterminatedQuote is returned by Split for an unbalanced quote.
var ErrUnterminatedQuote = errors.New("unterminated quote")

// Split breaks a line into words. Double or single quotes group words.
func Split(line string) ([]string, error) {
	var (
		words []string
		cur   strings.Builder
		quote rune
		inTok bool
	)
	for _, r := range line {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '"' || r == '\'':
			quote = r
			inTok = true
		case r == ' ' || r == '\t':
			if inTok {
				words = append(words, cur.String())
				cur.Reset()
				inTok = false
			}
		default:
			cur.WriteRune(r)
			inTok = true
		}
	}
	if quote != 0 {
		return nil, ErrUnterminatedQuote
	}
	if inTok {
		words = append(words, cur.String())
	}
	return words, nil
}
