// Command cli asks TIA questions from the terminal on a single thread.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gabrieldfa/tia/internal/config"
	"github.com/gabrieldfa/tia/internal/services/assistant"
	"github.com/gabrieldfa/tia/internal/shell"
	"github.com/gabrieldfa/tia/pkg/logger"
)

func main() {
	logger.Setup(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, "tia:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	conv, err := assistant.Initialize(ctx, config.LoadAssistantConfig())
	if err != nil {
		return err
	}
	logger.Info(logger.APP, "Conversation started on thread %s", conv.Thread().ID)

	term := shell.NewTerminal(os.Stdin, os.Stdout, config.GetCourseName())
	term.Greet()

	return shell.Run(ctx, term, conv)
}
