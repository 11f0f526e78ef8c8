package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// mustGetFlag reads a flag through the typed pflag getter or panics.
// Flags are declared in init(), so a lookup error is a programming bug.
func mustGetFlag[T any](name string, get func(string) (T, error)) T {
	val, err := get(name)
	if err != nil {
		panic(fmt.Sprintf("flag error for --%s: %v", name, err))
	}
	return val
}

func mustGetBool(cmd *cobra.Command, name string) bool {
	return mustGetFlag(name, cmd.Flags().GetBool)
}

func mustGetInt(cmd *cobra.Command, name string) int {
	return mustGetFlag(name, cmd.Flags().GetInt)
}

func mustGetString(cmd *cobra.Command, name string) string {
	return mustGetFlag(name, cmd.Flags().GetString)
}
