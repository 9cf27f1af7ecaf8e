// Command jsonrescue recovers a JSON object from a captured model response.
//
//	jsonrescue recover response.txt --truncated
//	jsonrescue recover --input-format response < completion.json
//	jsonrescue schema journey
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/leofalp/jsonrescue/core/recovery"
	"github.com/leofalp/jsonrescue/providers/ai"
)

const (
	exitFailure         = 1
	exitNoJSON          = 3
	exitRepairExhausted = 4
	exitProvider        = 5
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "jsonrescue",
		Short:         "Recover JSON objects from LLM responses",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newRecoverCmd())
	rootCmd.AddCommand(newSchemaCmd())

	return rootCmd
}

func exitCode(err error) int {
	switch {
	case recovery.KindOf(err) == recovery.KindNoJSONFound:
		return exitNoJSON
	case recovery.KindOf(err) == recovery.KindAllRepairAttemptsFailed:
		return exitRepairExhausted
	case errors.Is(err, ai.ErrProviderError), errors.Is(err, ai.ErrMissingTextBlock):
		return exitProvider
	}
	return exitFailure
}
