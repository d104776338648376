package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

var version = "0.1.0"

// exitError carries a process exit code out of a command.
type exitError struct {
	code int
	msg  string
}

func (e exitError) Error() string { return e.msg }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err := newRootCommand(newApp()).ExecuteContext(ctx)
	if err == nil {
		return
	}
	var exit exitError
	if errors.As(err, &exit) {
		fmt.Fprintln(os.Stderr, exit.msg)
		stop()
		os.Exit(exit.code)
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	stop()
	os.Exit(1)
}
