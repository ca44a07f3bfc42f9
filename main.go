package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spotdemo4/mojo-chat/internal/chat"
	"github.com/spotdemo4/mojo-chat/internal/clock"
	"github.com/spotdemo4/mojo-chat/internal/ctxutil"
	"github.com/spotdemo4/mojo-chat/internal/logging"
	"github.com/spotdemo4/mojo-chat/internal/session"
	"github.com/spotdemo4/mojo-chat/internal/stream"
	"github.com/spotdemo4/mojo-chat/internal/transcript"
	"github.com/spotdemo4/mojo-chat/internal/tui"
	"github.com/spotdemo4/mojo-chat/internal/typing"
	"golang.org/x/sync/errgroup"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		tui.PrintErr("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}

	root := &cobra.Command{
		Use:           "mojo-chat",
		Short:         "Chat with a retrieval server from the terminal",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getConfig(cmd, f)
			if err != nil {
				return err
			}

			return runInteractive(cmd.Context(), c)
		},
	}
	f.register(root)

	ask := &cobra.Command{
		Use:   "ask <message...>",
		Short: "Send one message and print the reply",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := getConfig(cmd, f)
			if err != nil {
				return err
			}

			return runAsk(cmd.Context(), c, strings.Join(args, " "))
		},
	}
	root.AddCommand(ask)

	return root
}

func openLog(c config) (zerolog.Logger, func(), error) {
	log, closer, err := logging.New(c.logFile, c.logLevel)
	if err != nil {
		return log, func() {}, err
	}

	log.Info().
		Str("version", version).
		Str("url", c.url.String()).
		Msg("starting")

	return log, func() { closer.Close() }, nil
}

func runInteractive(ctx context.Context, c config) error {
	log, closeLog, err := openLog(c)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Create channels
	input := make(chan tui.Input, 1)
	output := make(chan tui.Msg, 10)

	controller := chat.New(
		session.New(clock.Real{}),
		stream.New(c.url, c.headers, c.timeout, logging.Component(log, "stream")),
		tui.NewSink(ctx, output),
		typing.New(c.typingInterval, clock.Real{}),
		logging.Component(log, "chat"),
	)

	t := tea.NewProgram(
		tui.New(version, input, output),
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	var final tea.Model
	g, gctx := errgroup.WithContext(ctx)

	// Start tea
	g.Go(func() error {
		defer cancel()

		m, err := t.Run()
		final = m
		if err != nil && !errors.Is(err, tea.ErrProgramKilled) && !errors.Is(err, tea.ErrInterrupted) {
			return err
		}

		return nil
	})

	// Serve submissions until the program exits
	g.Go(func() error {
		for {
			in, ok := ctxutil.Next(gctx, input)
			if !ok {
				return nil
			}

			if in.Cancel {
				if controller.Cancel() {
					log.Info().Msg("turn cancelled")
				}
				continue
			}

			if _, err := controller.Submit(gctx, in.Text); err != nil {
				log.Debug().Err(err).Msg("input ignored")
			}
		}
	})

	err = g.Wait()
	controller.Cancel()

	if m, ok := final.(tui.Tui); ok && c.export != "" {
		err = errors.Join(err, export(m.Transcript(), c.export))
	}

	return err
}

func runAsk(ctx context.Context, c config, message string) error {
	log, closeLog, err := openLog(c)
	if err != nil {
		return err
	}
	defer closeLog()

	console := tui.NewConsole(os.Stdout)
	controller := chat.New(
		session.New(clock.Real{}),
		stream.New(c.url, c.headers, c.timeout, logging.Component(log, "stream")),
		console,
		typing.New(0, clock.Real{}),
		logging.Component(log, "chat"),
	)

	done, err := controller.Submit(ctx, message)
	if err != nil {
		return err
	}

	select {
	case <-done:
	case <-ctx.Done():
		controller.Cancel()
		<-done
	}

	if c.export != "" {
		if err := export(console.Transcript(), c.export); err != nil {
			return err
		}
	}

	return controller.Err()
}

func export(t *transcript.Transcript, path string) error {
	var buf bytes.Buffer
	if err := t.WriteHTML(&buf, "mojo-chat"); err != nil {
		return fmt.Errorf("could not render transcript: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("could not write transcript: %w", err)
	}
	tui.Print("transcript written to %s", path)

	return nil
}
