// Package repl is the interactive console front end for an editing session.
package repl

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ironsheep/promptvision/internal/engine"
)

type REPL struct {
	in       io.Reader
	out      io.Writer
	err      io.Writer
	engine   *engine.Engine
	logger   zerolog.Logger
	commands map[string]Command
	running  bool
}

type Config struct {
	In     io.Reader
	Out    io.Writer
	Err    io.Writer
	Engine *engine.Engine
	Logger zerolog.Logger
}

func New(cfg *Config) *REPL {
	r := &REPL{
		in:       cfg.In,
		out:      cfg.Out,
		err:      cfg.Err,
		engine:   cfg.Engine,
		logger:   cfg.Logger,
		commands: make(map[string]Command),
	}
	r.registerCommands()
	return r
}

func (r *REPL) Run(ctx context.Context) error {
	r.running = true
	r.printWelcome()

	scanner := bufio.NewScanner(r.in)
	for r.running {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.printPrompt()
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		if err := r.execute(ctx, line); err != nil {
			fmt.Fprintf(r.err, "Error: %v\n", err)
		}
	}

	return scanner.Err()
}

// execute runs a registered command. Any other line is treated as an editing
// prompt, so "più luminosa" works without the "prompt" keyword.
func (r *REPL) execute(ctx context.Context, line string) error {
	parts := parseCommand(line)
	if len(parts) == 0 {
		return nil
	}

	cmdName := strings.ToLower(parts[0])
	args := parts[1:]

	cmd, ok := r.commands[cmdName]
	if !ok {
		r.logger.Debug().Str("line", line).Msg("no command matched, applying as prompt")
		return applyPrompt(r, line)
	}

	return cmd.Execute(ctx, r, args)
}

func (r *REPL) Stop() {
	r.running = false
}

func (r *REPL) printWelcome() {
	fmt.Fprintln(r.out, "promptvision interactive mode")
	fmt.Fprintln(r.out, "Type an adjustment (\"molto più luminosa\") or 'help' for commands, 'quit' to exit.")
	fmt.Fprintln(r.out)
}

func (r *REPL) printPrompt() {
	info := r.engine.Info()
	if info.Loaded {
		fmt.Fprintf(r.out, "promptvision [%s %s]> ", filepath.Base(info.Source), info.Crop)
	} else {
		fmt.Fprint(r.out, "promptvision> ")
	}
}

func parseCommand(line string) []string {
	var parts []string
	var current strings.Builder
	inQuotes := false

	// Only double quotes group words; apostrophes are common in Italian prompts.
	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case (ch == ' ' || ch == '\t') && !inQuotes:
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(ch)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}
