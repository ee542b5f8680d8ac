package client

import (
	"fmt"
	"io"
	"log/slog"
)

// Notifier surfaces conditions the user has to see: an unsupported
// environment, a send while disconnected, a failed write.
type Notifier interface {
	Notify(msg string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// LogNotifier reports notices as warnings.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(msg string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("user notice", "msg", msg)
}

// WriterNotifier prints notices on their own line to W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Notify(msg string) {
	fmt.Fprintln(n.W, msg)
}
