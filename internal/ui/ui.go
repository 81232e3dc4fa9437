package ui

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/desertthunder/sp2yt/internal/shared"
)

// Prompter asks the user for input.
type Prompter interface {
	// Ask returns the trimmed answer to prompt.
	Ask(ctx context.Context, prompt string) (string, error)
	// Confirm reports whether the user answered y or Y.
	Confirm(ctx context.Context, prompt string) (bool, error)
}

var (
	_ Prompter = (*TerminalPrompter)(nil)
	_ Prompter = (*LinePrompter)(nil)
	_ tea.Model = inputModel{}
	_ tea.Model = confirmModel{}
)

// IsTerminal reports whether v is an *os.File attached to a terminal.
func IsTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// NewPrompter returns a [TerminalPrompter] when in is a terminal and a [LinePrompter] otherwise.
func NewPrompter(in io.Reader, out io.Writer, palette *Palette) Prompter {
	if IsTerminal(in) {
		return NewTerminalPrompter(in, out, palette)
	}
	return NewLinePrompter(in, out)
}

// TerminalPrompter runs a small bubbletea program per question.
type TerminalPrompter struct {
	in      io.Reader
	out     io.Writer
	palette *Palette
}

func NewTerminalPrompter(in io.Reader, out io.Writer, palette *Palette) *TerminalPrompter {
	if palette == nil {
		palette = DefaultPalette
	}
	return &TerminalPrompter{in: in, out: out, palette: palette}
}

func (p *TerminalPrompter) run(ctx context.Context, model tea.Model) (tea.Model, error) {
	program := tea.NewProgram(model, tea.WithContext(ctx), tea.WithInput(p.in), tea.WithOutput(p.out))
	final, err := program.Run()
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("prompt failed: %w", err)
	}
	return final, nil
}

func (p *TerminalPrompter) Ask(ctx context.Context, prompt string) (string, error) {
	final, err := p.run(ctx, newInputModel(prompt, p.palette))
	if err != nil {
		return "", err
	}

	m := final.(inputModel)
	if m.canceled {
		return "", shared.ErrCanceled
	}
	return m.value, nil
}

func (p *TerminalPrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	final, err := p.run(ctx, newConfirmModel(prompt, p.palette))
	if err != nil {
		return false, err
	}

	m := final.(confirmModel)
	if m.canceled {
		return false, shared.ErrCanceled
	}
	return m.answer, nil
}

// inputModel is a single line text prompt.
type inputModel struct {
	prompt   string
	input    textinput.Model
	help     help.Model
	keys     keyMap
	palette  *Palette
	value    string
	done     bool
	canceled bool
}

func newInputModel(prompt string, palette *Palette) inputModel {
	ti := textinput.New()
	ti.Placeholder = "https://open.spotify.com/playlist/..."
	ti.CharLimit = 512
	ti.Width = 64
	ti.Focus()

	return inputModel{prompt: prompt, input: ti, help: help.New(), keys: newKeyMap(), palette: palette}
}

func (m inputModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m inputModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, m.keys.quit):
			m.canceled = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.submit):
			m.value = strings.TrimSpace(m.input.Value())
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m inputModel) View() string {
	switch {
	case m.canceled:
		return ""
	case m.done:
		return fmt.Sprintf("%s: %s\n", m.prompt, m.value)
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.submit, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n\n%s\n", m.palette.Title(m.prompt), m.input.View(), helpView)
}

// confirmModel answers a y/n question with a single key press.
//
// Only y or Y confirms. Any other key declines and ctrl+c cancels.
type confirmModel struct {
	prompt   string
	help     help.Model
	keys     keyMap
	palette  *Palette
	answer   bool
	done     bool
	canceled bool
}

func newConfirmModel(prompt string, palette *Palette) confirmModel {
	return confirmModel{prompt: prompt, help: help.New(), keys: newKeyMap(), palette: palette}
}

func (m confirmModel) Init() tea.Cmd { return nil }

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.quit):
		m.canceled = true
	case key.Matches(keyMsg, m.keys.yes):
		m.answer = true
	}
	m.done = true
	return m, tea.Quit
}

func (m confirmModel) View() string {
	switch {
	case m.canceled:
		return ""
	case m.done && m.answer:
		return m.prompt + "y\n"
	case m.done:
		return m.prompt + "n\n"
	}

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n", m.palette.Title(m.prompt), helpView)
}

// LinePrompter reads answers one line at a time.
type LinePrompter struct {
	reader *bufio.Reader
	out    io.Writer
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{reader: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	line, err := p.reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("%w: no input", shared.ErrCanceled)
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (p *LinePrompter) Ask(ctx context.Context, prompt string) (string, error) {
	fmt.Fprintf(p.out, "%s: ", prompt)
	return p.readLine(ctx)
}

func (p *LinePrompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	fmt.Fprint(p.out, prompt)
	answer, err := p.readLine(ctx)
	if err != nil {
		return false, err
	}
	return answer == "y" || answer == "Y", nil
}
