package web

import (
	"context"
	"io"

	"github.com/gabrieldfa/tia/internal/shell"
)

// FormShell is a shell over one submitted form: it yields the staged input
// once and records the answer on the page.
type FormShell struct {
	state shell.InputState
	page  *Page
	read  bool
}

func NewFormShell(query string, page *Page) *FormShell {
	fs := &FormShell{page: page}
	fs.state.Query = query
	fs.state.Submit()
	return fs
}

func (fs *FormShell) CollectInput(ctx context.Context) (string, error) {
	if fs.read {
		return "", io.EOF
	}
	fs.read = true

	input := fs.state.Take()
	fs.page.UserInput = input
	return input, nil
}

func (fs *FormShell) Display(ctx context.Context, text string) error {
	fs.page.Answer = text
	fs.page.Failed = text == shell.ErrorText
	return nil
}
