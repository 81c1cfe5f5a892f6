package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/h30s/taskmanager/services/client/internal/apiclient"
	"github.com/h30s/taskmanager/services/client/internal/app"
	"github.com/h30s/taskmanager/services/client/internal/config"
	"github.com/h30s/taskmanager/services/client/internal/state"
	"github.com/h30s/taskmanager/services/client/internal/tui"
	"github.com/h30s/taskmanager/shared/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("taskui", "", os.Stderr).WithError(err).Fatal("failed to load config")
	}
	// stdout занят интерфейсом, логи пишем в stderr
	logrusLogger := logger.Init("taskui", cfg.LogLevel, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var outMu sync.Mutex
	render := func(s state.State) {
		outMu.Lock()
		defer outMu.Unlock()
		tui.Render(os.Stdout, s)
		fmt.Fprint(os.Stdout, "> ")
	}

	api := apiclient.NewClient(cfg.APIURL, cfg.RequestTimeout, logrusLogger)
	application := app.New(api, cfg.MessageTTL, logrusLogger, render)

	go readCommands(ctx, stop, os.Stdin, application, func(format string, args ...any) {
		outMu.Lock()
		defer outMu.Unlock()
		fmt.Fprintf(os.Stdout, format, args...)
	})

	logrusLogger.WithField("api_url", cfg.APIURL).Info("taskui started")
	application.Run(ctx)
	fmt.Fprintln(os.Stdout)
}

// readCommands читает stdin построчно и передаёт события приложению; конец ввода или quit завершают работу
func readCommands(ctx context.Context, stop context.CancelFunc, in io.Reader, application *app.App, printf func(string, ...any)) {
	defer stop()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		input, err := tui.Parse(scanner.Text(), application.State())
		switch {
		case err != nil:
			printf("%v\n> ", err)
		case input.Quit:
			return
		case input.Help:
			printf("%s> ", tui.HelpText)
		case len(input.Events) == 0:
			printf("> ")
		}
		for _, ev := range input.Events {
			application.Dispatch(ev)
		}
	}
}
