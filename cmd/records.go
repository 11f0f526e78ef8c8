package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attendance/internal/database"
)

var recordsCmd = &cobra.Command{
	Use:   "records",
	Short: "Show or clear the attendance log",
}

var recordsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attendance records, newest first",
	RunE:  runRecordsList,
}

var recordsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all attendance records",
	Long: `Delete all attendance records. Enrolled faces are kept.

Use --dry-run to see how many records would be removed.`,
	RunE: runRecordsClear,
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	recordsCmd.AddCommand(recordsListCmd)
	recordsCmd.AddCommand(recordsClearCmd)

	recordsListCmd.Flags().Int("limit", 0, "Maximum number of records to show (0 = all)")
	recordsListCmd.Flags().Bool("json", false, "Output as JSON")
	recordsClearCmd.Flags().Bool("dry-run", false, "Only report the number of records")
}

func runRecordsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	limit := mustGetInt(cmd, "limit")
	jsonOutput := mustGetBool(cmd, "json")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.records.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	if jsonOutput {
		if records == nil {
			records = []database.AttendanceRecord{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	if len(records) == 0 {
		fmt.Println("No attendance records")
		return nil
	}

	fmt.Printf("%-30s %-28s %s\n", "NAME", "DATE", "TIME")
	fmt.Printf("%-30s %-28s %s\n", "----", "----", "----")
	for _, r := range records {
		fmt.Printf("%-30s %-28s %s\n", truncate(r.Name, 30), r.Date, r.Time)
	}
	return nil
}

func runRecordsClear(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	dryRun := mustGetBool(cmd, "dry-run")

	a, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	records, err := a.records.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list records: %w", err)
	}

	if dryRun {
		fmt.Printf("DRY RUN - would delete %d attendance records\n", len(records))
		return nil
	}

	if err := a.records.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	fmt.Printf("Deleted %d attendance records\n", len(records))
	return nil
}
