// Package wire provides dependency injection for the annotate application.
// Every dependency is built from an explicit config.Config; nothing is read
// from package globals.
package wire

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	cliadapter "github.com/example/annotate/internal/adapters/cli"
	"github.com/example/annotate/internal/adapters/filesystem"
	"github.com/example/annotate/internal/adapters/nio"
	"github.com/example/annotate/internal/adapters/prompt"
	"github.com/example/annotate/internal/app"
	"github.com/example/annotate/internal/config"
	"github.com/example/annotate/internal/ports/primary"
	"github.com/example/annotate/internal/ports/secondary"
)

// Streams are the standard streams of the process.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams. Output streams translate ANSI
// colors on consoles that need it.
func StdStreams() Streams {
	return Streams{
		In:  os.Stdin,
		Out: colorable.NewColorableStdout(),
		Err: colorable.NewColorableStderr(),
	}
}

// Container holds the dependencies of one invocation.
type Container struct {
	Config  config.Config
	Logger  *zap.Logger
	Service primary.AnnotationService
	Adapter *cliadapter.AnnotationAdapter
}

// New builds the dependency graph for cfg.
func New(cfg config.Config, streams Streams) (*Container, error) {
	if cfg.NoColor {
		color.NoColor = true
	}

	logger := NewLogger(cfg.Verbose, streams.Err)

	store, err := nio.NewClient(nio.ClientConfig{
		Host:    cfg.Host,
		Auth:    cfg.Auth,
		Timeout: cfg.Timeout,
		Logger:  logger.Named("nio"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create nio client: %w", err)
	}

	content, err := filesystem.NewContentAdapter("", streams.In)
	if err != nil {
		return nil, err
	}

	prompter := NewPrompter(streams)
	gateway := app.NewGateway(store, app.WithSaveProgress(cliadapter.NewProgressPrinter(streams.Out)))
	service := app.NewAnnotationService(gateway, app.NewRecordBuilder(prompter), prompter, content)

	logger.Debug("configuration loaded",
		zap.String("host", cfg.Host),
		zap.Bool("auth", cfg.Auth != ""),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("file", cfg.File))

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Service: service,
		Adapter: cliadapter.NewAnnotationAdapter(service, streams.Out, cliadapter.TerminalWidth(streams.Out)),
	}, nil
}

// NewLogger returns a development console logger at debug level on w when
// verbose is set, and a no-op logger otherwise.
func NewLogger(verbose bool, w io.Writer) *zap.Logger {
	if !verbose || w == nil {
		return zap.NewNop()
	}
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if color.NoColor {
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), zapcore.DebugLevel)
	return zap.New(core, zap.Development())
}

// NewPrompter returns a menu-driven prompter when input and prompt output are
// both terminals, and a line prompter otherwise. Prompts go to the error
// stream so that standard output stays parseable.
func NewPrompter(streams Streams) secondary.Prompter {
	in, inOK := streams.In.(*os.File)
	if inOK && isTerminal(in) && isTerminal(os.Stderr) {
		return prompt.NewTerminal(in, os.Stderr, os.Stderr)
	}
	return prompt.NewLine(streams.In, streams.Err)
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
