// Package log configures the zerolog logger shared by the server and the
// hooks. All output goes to stderr: stdout belongs to the protocol stream
// and to hook replies.
package log

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/diode"
	"github.com/rs/zerolog/log"
)

// Output formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options controls logger construction.
type Options struct {
	Debug  bool
	Format string
	// Out defaults to os.Stderr.
	Out io.Writer
}

// New builds a logger writing through a non-blocking diode buffer.
// The returned func flushes and closes the buffer and must be called
// before the process exits.
func New(opts Options) (zerolog.Logger, func()) {
	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Debug {
		level = zerolog.DebugLevel
	}

	wr := diode.NewWriter(out, 1000, 10*time.Millisecond, func(missed int) {
		fmt.Fprintf(os.Stderr, "logger dropped %d messages\n", missed)
	})

	var sink io.Writer = wr
	if opts.Format != FormatJSON {
		sink = zerolog.ConsoleWriter{
			Out:        wr,
			NoColor:    true,
			TimeFormat: time.DateTime,
			PartsOrder: []string{
				zerolog.LevelFieldName,
				zerolog.TimestampFieldName,
				zerolog.MessageFieldName,
			},
		}
	}

	logger := zerolog.New(sink).
		Level(level).
		With().
		Timestamp().
		Logger()

	return logger, func() { _ = wr.Close() }
}

// NewContextWithLogger installs a new logger as the global zerolog logger
// and attaches it to ctx.
func NewContextWithLogger(ctx context.Context, opts Options) (context.Context, func()) {
	logger, flush := New(opts)
	log.Logger = logger
	return logger.WithContext(ctx), flush
}

// FromCtx returns the logger carried by ctx, or the global logger.
func FromCtx(ctx context.Context) *zerolog.Logger {
	return log.Ctx(ctx)
}
