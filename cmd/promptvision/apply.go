package main

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/promptvision/internal/imaging"
	"github.com/ironsheep/promptvision/internal/params"
)

var (
	flagOutput  string
	flagPrompts []string
	flagSets    []string
	flagPreset  string
	flagCrop    string
)

func newApplyCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apply <image>",
		Short: "Apply adjustments to an image and save the result",
		Long: `Apply adjustments non-interactively. Steps run in a fixed order:
crop, preset, --set values, then each --prompt in the order given.

Examples:
  promptvision apply photo.jpg -p "molto più luminosa"
  promptvision apply photo.jpg --crop 1:1 --preset vintage -o square.png
  promptvision apply photo.jpg --set contrast=1.4 --set warmth=1.2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd.Context(), app, args[0])
		},
	}

	cmd.Flags().StringVarP(&flagOutput, "output", "o", "", "output file (default <name>_edited<ext>)")
	cmd.Flags().StringArrayVarP(&flagPrompts, "prompt", "p", nil, "natural-language adjustment (repeatable)")
	cmd.Flags().StringArrayVar(&flagSets, "set", nil, "parameter assignment name=value (repeatable)")
	cmd.Flags().StringVar(&flagPreset, "preset", "", "preset to apply")
	cmd.Flags().StringVar(&flagCrop, "crop", "", "aspect ratio crop (1:1, 16:9, 4:5, 3:2, w:h)")

	return cmd
}

func runApply(ctx context.Context, app *App, input string) error {
	values, err := parseSets(flagSets)
	if err != nil {
		return err
	}
	var ratio imaging.Ratio
	if flagCrop != "" {
		if ratio, err = imaging.ParseRatio(flagCrop); err != nil {
			return err
		}
	}

	sess, err := newSession()
	if err != nil {
		return err
	}
	defer sess.Close()

	eng := sess.engine
	if err := eng.LoadImage(input); err != nil {
		return err
	}

	if flagCrop != "" {
		eng.CropToRatio(ratio)
	}
	if flagPreset != "" {
		changed, err := eng.ApplyPreset(ctx, flagPreset)
		if err != nil {
			return err
		}
		if !changed {
			names, err := eng.ListPresets(ctx)
			if err != nil {
				return err
			}
			if !slices.Contains(names, strings.TrimSpace(flagPreset)) {
				return fmt.Errorf("preset not found: %s", flagPreset)
			}
		}
	}
	if len(values) > 0 {
		eng.UpdateParametersBatch(values)
	}
	for _, prompt := range flagPrompts {
		result, _ := eng.ApplyPrompt(prompt)
		if result.Empty() {
			fmt.Fprintf(app.Err, "Warning: no adjustment recognised in %q\n", prompt)
		}
	}

	output := flagOutput
	if output == "" {
		output = defaultOutputPath(input)
	}
	written, err := eng.Save(output)
	if err != nil {
		return err
	}

	fmt.Fprintf(app.Out, "%s\n", eng.Params())
	fmt.Fprintf(app.Out, "Saved: %s\n", written)
	return nil
}

// parseSets converts name=value flags into a batch update.
func parseSets(sets []string) (map[string]float64, error) {
	values := make(map[string]float64, len(sets))
	for _, s := range sets {
		name, raw, ok := strings.Cut(s, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: expected name=value", s)
		}
		n, ok := params.ParseName(name)
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: unknown parameter %s", s, name)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", s, err)
		}
		values[string(n)] = v
	}
	return values, nil
}

func defaultOutputPath(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_edited" + ext
}
