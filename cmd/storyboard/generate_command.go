package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/damiansian/notebook-storyboards/internal/config"
	"github.com/damiansian/notebook-storyboards/internal/logging"
	"github.com/damiansian/notebook-storyboards/internal/preflight"
	"github.com/damiansian/notebook-storyboards/internal/storyboard"
)

func newGenerateCommand(ctx *commandContext) *cobra.Command {
	var outputDir string
	var threshold float64

	cmd := &cobra.Command{
		Use:   "generate <video> <captions>",
		Short: "Generate a storyboard from a video and its WebVTT transcript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			videoPath, err := config.ExpandPath(args[0])
			if err != nil {
				return err
			}
			captionPath, err := config.ExpandPath(args[1])
			if err != nil {
				return err
			}
			target := strings.TrimSpace(outputDir)
			if target == "" {
				target = defaultOutputDir(videoPath)
			}
			target, err = config.ExpandPath(target)
			if err != nil {
				return err
			}

			if err := preflight.Summarize(preflight.RunAll(cmd.Context(), cfg, target)); err != nil {
				return fmt.Errorf("preflight failed: %w (run `storyboard deps`)", err)
			}

			log := logging.NewComponentLogger(logger, "generate")
			log.Info("generating storyboard",
				logging.String("video", videoPath),
				logging.String("captions", captionPath),
				logging.String("output", target))

			started := time.Now()
			result, err := storyboard.Generate(cmd.Context(), cfg, storyboard.Request{
				VideoPath:   videoPath,
				CaptionPath: captionPath,
				OutputDir:   target,
				Threshold:   threshold,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", storyboard.Classify(err), err)
			}

			for _, warning := range result.Warnings {
				log.Warn("recovered during generation",
					logging.String("class", warning.Class),
					logging.String("detail", warning.Detail))
			}
			log.Info("storyboard published",
				logging.String("document", result.DocumentPath),
				logging.Int("scenes", len(result.Records)),
				logging.Duration("elapsed", time.Since(started).Round(time.Millisecond)))

			printGenerateSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputDir, "output", "o", "", "Output directory (default: <video name>-storyboard next to the video)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "Override the configured scene change threshold (fraction of changed pixels)")
	return cmd
}

// defaultOutputDir picks a storyboard directory next to the video, named
// after it.
func defaultOutputDir(videoPath string) string {
	base := filepath.Base(videoPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "video"
	}
	return filepath.Join(filepath.Dir(videoPath), stem+"-storyboard")
}

func printGenerateSummary(w io.Writer, result storyboard.Result) {
	silent := 0
	for _, record := range result.Records {
		if len(record.Cues) == 0 {
			silent++
		}
	}
	rows := [][]string{
		{"Title", result.Title},
		{"Scenes", strconv.Itoa(len(result.Records))},
		{"Cues", strconv.Itoa(result.CueCount())},
		{"Silent scenes", strconv.Itoa(silent)},
		{"Frames scanned", strconv.Itoa(result.FramesScanned)},
		{"Video length", storyboard.FormatTimestamp(result.VideoDuration)},
		{"Warnings", strconv.Itoa(len(result.Warnings))},
		{"Document", result.DocumentPath},
	}

	if shouldColorize(w) {
		fmt.Fprintln(w, renderTable([]string{"Field", "Value"}, rows))
		return
	}
	for _, row := range rows {
		fmt.Fprintf(w, "%s: %s\n", row[0], row[1])
	}
}
