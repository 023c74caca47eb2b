// Package shell drives the question/answer loop for any front-end that can
// read one line of input and show one answer.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gabrieldfa/tia/pkg/logger"
)

// ErrorText is shown when a question could not be answered at all
const ErrorText = "Maaf, TIA sedang mengalami gangguan. Silakan coba lagi nanti."

// Shell collects input and displays answers. CollectInput returns io.EOF
// when there is nothing more to read.
type Shell interface {
	CollectInput(ctx context.Context) (string, error)
	Display(ctx context.Context, text string) error
}

// Asker answers a single question
type Asker interface {
	Ask(ctx context.Context, text string) (string, error)
}

// Run reads questions from sh until it is exhausted or ctx is done, in which
// case it returns ctx.Err() without showing anything. Blank input never
// reaches the asker. An Ask error is shown as ErrorText unless
// the asker still produced an answer to show.
func Run(ctx context.Context, sh Shell, asker Asker) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		input, err := sh.CollectInput(ctx)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			return fmt.Errorf("failed to collect input: %w", err)
		}

		if strings.TrimSpace(input) == "" {
			continue
		}

		answer, err := asker.Ask(ctx, input)
		if err != nil && ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			logger.Error(logger.SHELL, "Failed to answer question: %v", err)
			if answer == "" {
				answer = ErrorText
			}
		}

		if err := sh.Display(ctx, answer); err != nil {
			return fmt.Errorf("failed to display answer: %w", err)
		}
	}
}
