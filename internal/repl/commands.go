package repl

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/promptvision/internal/engine"
	"github.com/ironsheep/promptvision/internal/imaging"
	"github.com/ironsheep/promptvision/internal/params"
)

type Command interface {
	Name() string
	Aliases() []string
	Description() string
	Usage() string
	Execute(ctx context.Context, r *REPL, args []string) error
}

func allCommands() []Command {
	return []Command{
		&LoadCommand{},
		&PromptCommand{},
		&SetCommand{},
		&CropCommand{},
		&UndoCommand{},
		&RedoCommand{},
		&SaveCommand{},
		&PresetCommand{},
		&InfoCommand{},
		&StatsCommand{},
		&LogCommand{},
		&HelpCommand{},
		&QuitCommand{},
	}
}

func (r *REPL) registerCommands() {
	for _, cmd := range allCommands() {
		r.commands[cmd.Name()] = cmd
		for _, alias := range cmd.Aliases() {
			r.commands[alias] = cmd
		}
	}
}

func (r *REPL) printParams() {
	fmt.Fprintf(r.out, "%s\n", r.engine.Params())
}

// LoadCommand opens an image and starts a new session
type LoadCommand struct{}

func (c *LoadCommand) Name() string        { return "load" }
func (c *LoadCommand) Aliases() []string   { return []string{"open", "o"} }
func (c *LoadCommand) Description() string { return "Load an image, resetting parameters and history" }
func (c *LoadCommand) Usage() string       { return "load <path>" }

func (c *LoadCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	path := strings.Join(args, " ")
	if err := r.engine.LoadImage(path); err != nil {
		return err
	}
	info := r.engine.Info()
	fmt.Fprintf(r.out, "Loaded: %s (%dx%d)\n", path, info.Width, info.Height)
	return nil
}

// PromptCommand applies a natural-language adjustment
type PromptCommand struct{}

func (c *PromptCommand) Name() string        { return "prompt" }
func (c *PromptCommand) Aliases() []string   { return []string{"p"} }
func (c *PromptCommand) Description() string { return "Apply an Italian or English adjustment" }
func (c *PromptCommand) Usage() string       { return "prompt <text>" }

func (c *PromptCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	return applyPrompt(r, strings.Join(args, " "))
}

func applyPrompt(r *REPL, text string) error {
	if !r.engine.Loaded() {
		return engine.ErrNoImage
	}
	result, changed := r.engine.ApplyPrompt(text)
	switch {
	case result.Empty():
		fmt.Fprintln(r.out, "No adjustment recognised")
		return nil
	case !changed:
		fmt.Fprintln(r.out, "Already at that setting")
		return nil
	}
	fmt.Fprintf(r.out, "Changed (%s): %s\n", result.Source, strings.Join(result.TouchedNames(), ", "))
	r.printParams()
	return nil
}

// SetCommand sets slider values directly
type SetCommand struct{}

func (c *SetCommand) Name() string        { return "set" }
func (c *SetCommand) Aliases() []string   { return []string{"adjust"} }
func (c *SetCommand) Description() string { return "Set one or more parameters (0.0 to 3.0)" }
func (c *SetCommand) Usage() string       { return "set <param> <value> | set <param>=<value> ..." }

func (c *SetCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		r.printParams()
		return nil
	}
	if !r.engine.Loaded() {
		return engine.ErrNoImage
	}

	values, err := parseAssignments(args)
	if err != nil {
		return fmt.Errorf("%w\nUsage: %s", err, c.Usage())
	}

	var changed bool
	if len(values) == 1 {
		for name, v := range values {
			changed = r.engine.UpdateParameter(name, v)
		}
	} else {
		changed = r.engine.UpdateParametersBatch(values)
	}
	if !changed {
		fmt.Fprintln(r.out, "No change")
		return nil
	}
	r.printParams()
	return nil
}

// parseAssignments accepts "name value" or any number of "name=value" pairs.
func parseAssignments(args []string) (map[string]float64, error) {
	values := make(map[string]float64)
	if len(args) == 2 && !strings.Contains(args[0], "=") {
		args = []string{args[0] + "=" + args[1]}
	}
	for _, arg := range args {
		name, raw, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected name=value, got %q", arg)
		}
		n, ok := params.ParseName(name)
		if !ok {
			return nil, fmt.Errorf("unknown parameter: %s", name)
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %q", name, raw)
		}
		values[string(n)] = v
	}
	return values, nil
}

// CropCommand crops to an aspect ratio
type CropCommand struct{}

func (c *CropCommand) Name() string        { return "crop" }
func (c *CropCommand) Aliases() []string   { return []string{"c"} }
func (c *CropCommand) Description() string { return "Centre-crop to a ratio, or 'original' to restore" }
func (c *CropCommand) Usage() string       { return "crop <original|1:1|16:9|4:5|3:2|w:h>" }

func (c *CropCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		labels := make([]string, len(imaging.PresetRatios))
		for i, ratio := range imaging.PresetRatios {
			labels[i] = ratio.String()
		}
		fmt.Fprintf(r.out, "Current crop: %s\nAvailable: %s\n", r.engine.Info().Crop, strings.Join(labels, ", "))
		return nil
	}
	if !r.engine.Loaded() {
		return engine.ErrNoImage
	}

	ratio, err := imaging.ParseRatio(args[0])
	if err != nil {
		return err
	}
	if !r.engine.CropToRatio(ratio) {
		fmt.Fprintln(r.out, "No change")
		return nil
	}
	info := r.engine.Info()
	fmt.Fprintf(r.out, "Cropped to %s (%dx%d)\n", info.Crop, info.Width, info.Height)
	return nil
}

// UndoCommand reverts the last parameter change
type UndoCommand struct{}

func (c *UndoCommand) Name() string        { return "undo" }
func (c *UndoCommand) Aliases() []string   { return []string{"u"} }
func (c *UndoCommand) Description() string { return "Revert the last parameter change" }
func (c *UndoCommand) Usage() string       { return "undo" }

func (c *UndoCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	if !r.engine.Undo() {
		fmt.Fprintln(r.out, "Nothing to undo")
		return nil
	}
	r.printParams()
	return nil
}

// RedoCommand re-applies an undone change
type RedoCommand struct{}

func (c *RedoCommand) Name() string        { return "redo" }
func (c *RedoCommand) Aliases() []string   { return []string{"r"} }
func (c *RedoCommand) Description() string { return "Re-apply the last undone change" }
func (c *RedoCommand) Usage() string       { return "redo" }

func (c *RedoCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	if !r.engine.Redo() {
		fmt.Fprintln(r.out, "Nothing to redo")
		return nil
	}
	r.printParams()
	return nil
}

// SaveCommand exports the rendered image
type SaveCommand struct{}

func (c *SaveCommand) Name() string        { return "save" }
func (c *SaveCommand) Aliases() []string   { return []string{"s", "export"} }
func (c *SaveCommand) Description() string { return "Save the rendered image (format from extension)" }
func (c *SaveCommand) Usage() string       { return "save <path>" }

func (c *SaveCommand) Execute(_ context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: %s", c.Usage())
	}
	written, err := r.engine.Save(strings.Join(args, " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Saved: %s\n", written)
	return nil
}

// PresetCommand manages named parameter presets
type PresetCommand struct{}

func (c *PresetCommand) Name() string        { return "preset" }
func (c *PresetCommand) Aliases() []string   { return []string{"presets"} }
func (c *PresetCommand) Description() string { return "Manage presets (list, save, apply, delete)" }
func (c *PresetCommand) Usage() string       { return "preset <list|save|apply|delete> [name]" }

func (c *PresetCommand) Execute(ctx context.Context, r *REPL, args []string) error {
	if len(args) == 0 {
		return c.list(ctx, r)
	}

	subCmd := strings.ToLower(args[0])
	name := strings.Join(args[1:], " ")

	switch subCmd {
	case "list", "ls":
		return c.list(ctx, r)
	case "save":
		if name == "" {
			return fmt.Errorf("usage: preset save <name>")
		}
		if err := r.engine.SavePreset(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(r.out, "Preset saved: %s\n", name)
		return nil
	case "apply", "load":
		if name == "" {
			return fmt.Errorf("usage: preset apply <name>")
		}
		changed, err := r.engine.ApplyPreset(ctx, name)
		if err != nil {
			return err
		}
		if !changed {
			fmt.Fprintln(r.out, "No change")
			return nil
		}
		r.printParams()
		return nil
	case "delete", "rm":
		if name == "" {
			return fmt.Errorf("usage: preset delete <name>")
		}
		deleted, err := r.engine.DeletePreset(ctx, name)
		if err != nil {
			return err
		}
		if !deleted {
			return fmt.Errorf("preset not found: %s", name)
		}
		fmt.Fprintf(r.out, "Preset deleted: %s\n", name)
		return nil
	default:
		return fmt.Errorf("unknown preset command: %s\nUsage: %s", subCmd, c.Usage())
	}
}

func (c *PresetCommand) list(ctx context.Context, r *REPL) error {
	names, err := r.engine.ListPresets(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Fprintln(r.out, "No presets saved")
		return nil
	}
	for _, name := range names {
		fmt.Fprintf(r.out, "  - %s\n", name)
	}
	return nil
}

// InfoCommand shows session state
type InfoCommand struct{}

func (c *InfoCommand) Name() string        { return "info" }
func (c *InfoCommand) Aliases() []string   { return []string{"i", "status"} }
func (c *InfoCommand) Description() string { return "Show image, crop, parameters and history depth" }
func (c *InfoCommand) Usage() string       { return "info" }

func (c *InfoCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	info := r.engine.Info()
	if !info.Loaded {
		fmt.Fprintln(r.out, "No image loaded")
		r.printParams()
		return nil
	}

	fmt.Fprintf(r.out, "Image:   %s\n", info.Source)
	if info.File != nil {
		fmt.Fprintf(r.out, "Format:  %s, %s\n", info.File.Format, info.File.FileSize)
	}
	fmt.Fprintf(r.out, "Size:    %dx%d (original %dx%d)\n", info.Width, info.Height, info.OriginalWidth, info.OriginalHeight)
	fmt.Fprintf(r.out, "Crop:    %s\n", info.Crop)
	fmt.Fprintf(r.out, "History: %d undo, %d redo\n", info.UndoDepth, info.RedoDepth)
	fmt.Fprint(r.out, "Params:  ")
	r.printParams()
	return nil
}

// StatsCommand reports colour statistics of the rendered image
type StatsCommand struct{}

func (c *StatsCommand) Name() string        { return "stats" }
func (c *StatsCommand) Aliases() []string   { return []string{"colors"} }
func (c *StatsCommand) Description() string { return "Show average colour, tone and dominant colours" }
func (c *StatsCommand) Usage() string       { return "stats" }

func (c *StatsCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	stats, err := r.engine.Stats()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "Average:   %s (luma %d)\n", stats.Average.Hex, stats.MeanLuma)
	fmt.Fprintf(r.out, "Tone:      %s (%+.2f)\n", stats.Tone, stats.WarmBalance)
	fmt.Fprintln(r.out, "Dominant:")
	for _, d := range stats.Dominant {
		fmt.Fprintf(r.out, "  %s  %5.1f%%\n", d.Hex, d.Percentage)
	}
	return nil
}

// LogCommand prints the activity log
type LogCommand struct{}

func (c *LogCommand) Name() string        { return "log" }
func (c *LogCommand) Aliases() []string   { return []string{"activity", "history", "h"} }
func (c *LogCommand) Description() string { return "Show recent activity, newest first" }
func (c *LogCommand) Usage() string       { return "log [count]" }

func (c *LogCommand) Execute(_ context.Context, r *REPL, args []string) error {
	limit := 10
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid count: %q", args[0])
		}
		limit = n
	}

	entries := r.engine.ActivityLog()
	if len(entries) == 0 {
		fmt.Fprintln(r.out, "No activity yet")
		return nil
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for _, e := range entries {
		fmt.Fprintln(r.out, e)
	}
	return nil
}

// HelpCommand shows help information
type HelpCommand struct{}

func (c *HelpCommand) Name() string        { return "help" }
func (c *HelpCommand) Aliases() []string   { return []string{"?"} }
func (c *HelpCommand) Description() string { return "Show available commands" }
func (c *HelpCommand) Usage() string       { return "help" }

func (c *HelpCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	fmt.Fprintln(r.out, "Available commands:")
	fmt.Fprintln(r.out)

	for _, cmd := range allCommands() {
		aliases := ""
		if len(cmd.Aliases()) > 0 {
			aliases = fmt.Sprintf(" (%s)", strings.Join(cmd.Aliases(), ", "))
		}
		fmt.Fprintf(r.out, "  %-20s%s\n", cmd.Name()+aliases, cmd.Description())
		fmt.Fprintf(r.out, "                      Usage: %s\n", cmd.Usage())
	}

	fmt.Fprintln(r.out)
	fmt.Fprintln(r.out, "Anything else is applied as an adjustment, e.g. \"molto più luminosa ma meno satura\".")
	return nil
}

// QuitCommand exits the REPL
type QuitCommand struct{}

func (c *QuitCommand) Name() string        { return "quit" }
func (c *QuitCommand) Aliases() []string   { return []string{"exit", "q"} }
func (c *QuitCommand) Description() string { return "Exit interactive mode" }
func (c *QuitCommand) Usage() string       { return "quit" }

func (c *QuitCommand) Execute(_ context.Context, r *REPL, _ []string) error {
	fmt.Fprintln(r.out, "Goodbye!")
	r.Stop()
	return nil
}
