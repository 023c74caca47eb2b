package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
)

const (
	Title      = "TIA - Tel-U Interactive AI"
	AnswerHead = "TIA Menjawab... 🗣️"
	EchoPrefix = "Kamu Memasukkan..."
)

// Terminal is a line-based shell over a reader and a writer
type Terminal struct {
	scanner *bufio.Scanner
	out     io.Writer
	course  string
	state   InputState

	lines    chan scannedLine
	readOnce sync.Once

	bold   func(a ...interface{}) string
	prompt func(a ...interface{}) string
	answer func(a ...interface{}) string
}

func NewTerminal(in io.Reader, out io.Writer, course string) *Terminal {
	return &Terminal{
		scanner: bufio.NewScanner(in),
		out:     out,
		course:  course,
		bold:    color.New(color.Bold).SprintFunc(),
		prompt:  color.New(color.FgGreen, color.Bold).SprintFunc(),
		answer:  color.New(color.FgBlue, color.Bold).SprintFunc(),
		lines:   make(chan scannedLine),
	}
}

type scannedLine struct {
	text string
	err  error
}

// readLines feeds input lines to CollectInput so a blocked read never holds up
// cancellation. The channel is closed after the final read error.
func (t *Terminal) readLines() {
	defer close(t.lines)
	for t.scanner.Scan() {
		t.lines <- scannedLine{text: t.scanner.Text()}
	}
	if err := t.scanner.Err(); err != nil {
		t.lines <- scannedLine{err: err}
	}
}

// Greet prints the header shown above the first prompt
func (t *Terminal) Greet() {
	fmt.Fprintln(t.out, t.bold(fmt.Sprintf("Tanya TIA - %s 👋", t.course)))
	fmt.Fprintln(t.out, Title)
	fmt.Fprintln(t.out, "Ketik pertanyaanmu lalu tekan Enter. Ketik 'keluar' untuk berhenti.")
	fmt.Fprintln(t.out)
}

func (t *Terminal) CollectInput(ctx context.Context) (string, error) {
	fmt.Fprint(t.out, t.prompt(fmt.Sprintf("Tanya TIA seputar %s... ", t.course)))

	t.readOnce.Do(func() { go t.readLines() })

	var line scannedLine
	select {
	case <-ctx.Done():
		fmt.Fprintln(t.out)
		return "", ctx.Err()
	case next, ok := <-t.lines:
		if !ok {
			return "", io.EOF
		}
		if next.err != nil {
			return "", next.err
		}
		line = next
	}

	t.state.Query = line.text
	t.state.Submit()
	input := t.state.Take()

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "":
		return "", nil
	case "exit", "keluar":
		return "", io.EOF
	}

	fmt.Fprintln(t.out, EchoPrefix, input)
	return input, nil
}

func (t *Terminal) Display(ctx context.Context, text string) error {
	_, err := fmt.Fprintf(t.out, "\n%s\n%s\n\n", t.answer(AnswerHead), text)
	return err
}
