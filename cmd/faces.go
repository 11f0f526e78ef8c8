package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var facesCmd = &cobra.Command{
	Use:   "faces",
	Short: "List enrolled faces",
	RunE:  runFaces,
}

func init() {
	rootCmd.AddCommand(facesCmd)

	facesCmd.Flags().Bool("json", false, "Output as JSON")
}

type faceOutput struct {
	Identity   string `json:"identity"`
	Features   int    `json:"features"`
	EnrolledAt string `json:"enrolled_at"`
}

func runFaces(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	jsonOutput := mustGetBool(cmd, "json")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	profiles, err := a.profiles.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list faces: %w", err)
	}

	if jsonOutput {
		out := make([]faceOutput, 0, len(profiles))
		for _, p := range profiles {
			out = append(out, faceOutput{
				Identity:   p.Identity,
				Features:   len(p.Fingerprint),
				EnrolledAt: p.EnrolledAt.Format(time.RFC3339),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(profiles) == 0 {
		fmt.Println("No faces enrolled")
		return nil
	}

	fmt.Printf("Enrolled faces (%d):\n\n", len(profiles))
	fmt.Printf("%-30s %-10s %s\n", "IDENTITY", "FEATURES", "ENROLLED")
	fmt.Printf("%-30s %-10s %s\n", "--------", "--------", "--------")
	for _, p := range profiles {
		fmt.Printf("%-30s %-10d %s\n", truncate(p.Identity, 30), len(p.Fingerprint), p.EnrolledAt.Format("2006-01-02 15:04"))
	}
	return nil
}

// truncate shortens s to n runes, marking the cut with "...".
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
