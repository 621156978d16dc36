package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/xvierd/focus-cli/internal/adapters/git"
	"github.com/xvierd/focus-cli/internal/adapters/notification"
	"github.com/xvierd/focus-cli/internal/adapters/storage"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/focus"
	"github.com/xvierd/focus-cli/internal/ports"
	"github.com/xvierd/focus-cli/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	storage  ports.Storage
	tasks    *services.TaskService
	history  *services.HistoryService
	git      ports.GitDetector
	notifier *notification.Notifier
	config   *config.Config
	loc      *time.Location
	listID   string
	logger   *slog.Logger
	logFile  io.Closer
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// initializeServices sets up all the required services and adapters.
func initializeServices() error {
	var err error
	app.config, err = config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, using defaults\n", err)
		app.config = config.DefaultConfig()
	}

	app.logger, app.logFile, err = setupLogger(app.config)
	if err != nil {
		return err
	}
	slog.SetDefault(app.logger)

	app.loc, err = app.config.Location()
	if err != nil {
		return err
	}

	app.listID = app.config.Focus.List
	if listFlag != "" {
		app.listID = listFlag
	}

	app.notifier = notification.New(&app.config.Notifications)

	if dbPath == "" {
		dbPath = config.GetDBPath(app.config)
	}
	if err := os.MkdirAll(getDir(dbPath), 0750); err != nil {
		return fmt.Errorf("failed to create database directory: %w", err)
	}

	app.storage, err = storage.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	workingDir, _ := os.Getwd()
	app.git = git.NewDetector(workingDir)

	app.tasks = services.NewTaskService(app.storage, app.loc)
	app.history = services.NewHistoryService(app.storage, app.git, workingDir)

	app.logger.Debug("services initialized", "db", dbPath, "list", app.listID, "zone", app.loc.String())
	return nil
}

// setupLogger opens the log file and builds the handler the config asks
// for. The terminal belongs to the TUI, so logs never go to stderr.
func setupLogger(cfg *config.Config) (*slog.Logger, io.Closer, error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(getDir(path), 0750); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel()}
	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(f, opts)
	} else {
		handler = slog.NewTextHandler(f, opts)
	}
	return slog.New(handler), f, nil
}

// cleanupServices closes all resources.
func cleanupServices() error {
	var err error
	if app.storage != nil {
		err = app.storage.Close()
		app.storage = nil
	}
	if app.logFile != nil {
		_ = app.logFile.Close()
		app.logFile = nil
	}
	return err
}

// focusSession is a controller wired to the app's task store, notifier and
// history, with the frames it schedules on.
type focusSession struct {
	frames *focus.Frames
	ctrl   *focus.Controller
}

func newFocusSession(clock ports.Clock) focusSession {
	frames := focus.NewFrames()
	ctrl := focus.NewController(frames, clock, focus.ControllerOptions{
		ListID:   app.listID,
		Location: app.loc,
		Settings: app.config.ModeSettings(),
		Source:   app.tasks,
		Status:   app.tasks,
		Notifier: app.notifier,
		Recorder: app.history,
		Logger:   app.logger,
	})
	return focusSession{frames: frames, ctrl: ctrl}
}

// setupSignalHandler sets up a context that cancels on interrupt signals.
func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		cancel()
	}()

	return ctx
}
