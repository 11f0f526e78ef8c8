package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/constants"
	"github.com/kozaktomas/face-attendance/internal/frames"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

var recognizeCmd = &cobra.Command{
	Use:   "recognize",
	Short: "Run recognition over a recorded session",
	Long: `Replay a recorded session (one JSON frame per line) through the
recognition loop and record attendance for every enrolled face it marks.

Cooldowns follow the frame timestamps of the recording, so the result does
not depend on --fps. Recordings without timestamps use the wall clock. The
run ends when the recording is exhausted.

Examples:
  face-attendance recognize --replay session.jsonl
  face-attendance recognize --replay session.jsonl --fps 0 --json`,
	RunE: runRecognize,
}

func init() {
	rootCmd.AddCommand(recognizeCmd)

	recognizeCmd.Flags().String("replay", "", "Path to a recorded session (JSON lines)")
	recognizeCmd.Flags().Int("fps", constants.DefaultReplayFPS, "Replay frame rate (0 = as fast as possible)")
	recognizeCmd.Flags().Bool("json", false, "Print notifications as JSON lines instead of a progress bar (unpaced replays may skip some)")
	_ = recognizeCmd.MarkFlagRequired("replay")
}

func runRecognize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	replayPath := mustGetString(cmd, "replay")
	fps := mustGetInt(cmd, "fps")
	jsonOutput := mustGetBool(cmd, "json")

	replay, err := frames.OpenReplay(replayPath, fps)
	if err != nil {
		return err
	}
	if replay.Len() == 0 {
		return fmt.Errorf("session %s has no frames", replayPath)
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	opts := recognition.OptionsFromConfig(a.cfg)
	opts.Now = replay.Now
	controller := recognition.NewController(a.profiles, a.records, replay, replay, opts, a.logger)

	var bar *progressbar.ProgressBar
	if !jsonOutput {
		bar = progressbar.NewOptions(replay.Len(),
			progressbar.OptionSetDescription("Recognizing"),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("frames"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionFullWidth(),
		)
		replay.OnFrame(func(int) { _ = bar.Add(1) })
	}

	events := controller.Events().AddListener()
	defer controller.Events().RemoveListener(events)

	handle, err := controller.StartRecognition(ctx, replay)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	for done := false; !done; {
		select {
		case n := <-events:
			if jsonOutput {
				if err := enc.Encode(n); err != nil {
					handle.Stop()
					return fmt.Errorf("writing notification: %w", err)
				}
			}
		case <-handle.Done():
			done = true
		}
	}
	// Notifications buffered before the loop exited.
	for drained := false; !drained; {
		select {
		case n := <-events:
			if jsonOutput {
				_ = enc.Encode(n)
			}
		default:
			drained = true
		}
	}

	if bar != nil {
		_ = bar.Finish()
		fmt.Println()
	}

	if err := handle.Wait(); err != nil && !errors.Is(err, recognition.ErrSourceClosed) {
		return fmt.Errorf("recognition failed: %w", err)
	}

	if jsonOutput {
		return nil
	}

	// Stored timestamps have millisecond precision.
	marked, err := a.records.Since(ctx, handle.StartedAt().Add(-time.Millisecond))
	if err != nil {
		return fmt.Errorf("loading marks: %w", err)
	}
	fmt.Printf("Frames: %d, attendance marked: %d\n", replay.Len(), len(marked))
	for _, rec := range slices.Backward(marked) {
		fmt.Printf("  %s  %s\n", rec.Time, rec.Name)
	}
	return nil
}
