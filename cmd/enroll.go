package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/frames"
	"github.com/kozaktomas/face-attendance/internal/recognition"
)

var enrollCmd = &cobra.Command{
	Use:   "enroll <identity>",
	Short: "Enroll a face from a captured frame",
	Long: `Enroll a face under the given identity using a frame captured as JSON
({"faces": [...], "landmarks": [[x, y, z], ...]}).

Enrolling a name that already exists (case-insensitive) replaces its profile.

Examples:
  face-attendance enroll "Ada Lovelace" --frame ada.json
  face-attendance enroll bob --frame bob.json --json`,
	Args: cobra.ExactArgs(1),
	RunE: runEnroll,
}

func init() {
	rootCmd.AddCommand(enrollCmd)

	enrollCmd.Flags().String("frame", "", "Path to a captured frame (JSON)")
	enrollCmd.Flags().Bool("json", false, "Output as JSON")
	_ = enrollCmd.MarkFlagRequired("frame")
}

func runEnroll(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	framePath := mustGetString(cmd, "frame")
	jsonOutput := mustGetBool(cmd, "json")

	frame, err := frames.ReadFrameFile(framePath)
	if err != nil {
		return err
	}

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	src := frames.NewReplay([]frames.Frame{frame}, 0)
	if err := src.WaitFrame(ctx); err != nil {
		return fmt.Errorf("reading frame: %w", err)
	}

	enroller := recognition.NewEnroller(a.profiles, src, src, a.logger)
	result, err := enroller.Enroll(ctx, args[0], src)
	if err != nil {
		if errors.Is(err, recognition.ErrNoFaceDetected) {
			return fmt.Errorf("no face found in %s", framePath)
		}
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Updated {
		fmt.Printf("Updated profile for %s\n", result.Identity)
	} else {
		fmt.Printf("Enrolled %s\n", result.Identity)
	}
	return nil
}
