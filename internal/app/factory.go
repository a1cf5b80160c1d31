package app

import (
	"io"
	"os"

	"github.com/footprint-tools/argutil/internal/domain"
	"github.com/footprint-tools/argutil/internal/log"
	"github.com/footprint-tools/argutil/internal/paths"
	"github.com/footprint-tools/argutil/internal/store"
	"github.com/footprint-tools/argutil/internal/ui"
	"github.com/footprint-tools/argutil/internal/ui/style"
)

// Options configures the application factory.
type Options struct {
	// Dir is the base directory of the definitions and defaults documents
	// read through Application.Store.
	Dir string

	Stdout io.Writer
	Stderr io.Writer

	PagerDisabled bool
	// PagerOverride replaces $PAGER.
	PagerOverride string

	// LogLevel is the minimum level written to Stderr.
	LogLevel log.Level
	// LogFile additionally enables the debug log file.
	LogFile bool

	StyleEnabled bool
	// Theme names a style theme; "" picks the default for the terminal.
	Theme string
}

// DefaultOptions returns the options used when nothing else is configured.
func DefaultOptions() Options {
	return Options{
		Dir:          ".",
		Stdout:       os.Stdout,
		Stderr:       os.Stderr,
		LogLevel:     log.LevelWarn,
		LogFile:      os.Getenv("ARGUTIL_LOG") != "",
		StyleEnabled: true,
	}
}

// New creates an Application with all dependencies wired up. A log file
// that cannot be opened is skipped.
func New(opts Options) *domain.Application {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	var logger domain.Logger = log.New(opts.Stderr, "argutil", opts.LogLevel)
	if opts.LogFile {
		if l, err := log.Open(paths.LogFilePath(), log.LevelDebug); err == nil {
			logger = multiLogger{logger, l}
		}
	}

	style.Init(opts.StyleEnabled, opts.Theme)

	var writerOpts []ui.WriterOption
	if opts.PagerDisabled {
		writerOpts = append(writerOpts, ui.WithPagerDisabled())
	}
	if opts.PagerOverride != "" {
		writerOpts = append(writerOpts, ui.WithPagerOverride(opts.PagerOverride))
	}

	return &domain.Application{
		Store:  store.New(opts.Dir, store.WithLogger(logger)),
		Logger: logger,
		Output: ui.NewWriterTo(opts.Stdout, writerOpts...),
		Styler: style.NewStyler(),
	}
}

// Close cleans up application resources.
func Close(app *domain.Application) error {
	if app.Logger != nil {
		return app.Logger.Close()
	}
	return nil
}

// multiLogger fans messages out to several loggers.
type multiLogger []domain.Logger

func (m multiLogger) Debug(format string, args ...any) {
	for _, l := range m {
		l.Debug(format, args...)
	}
}

func (m multiLogger) Info(format string, args ...any) {
	for _, l := range m {
		l.Info(format, args...)
	}
}

func (m multiLogger) Warn(format string, args ...any) {
	for _, l := range m {
		l.Warn(format, args...)
	}
}

func (m multiLogger) Error(format string, args ...any) {
	for _, l := range m {
		l.Error(format, args...)
	}
}

func (m multiLogger) Close() error {
	var first error
	for _, l := range m {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
