// Command academic-api serves the academic chat assistant and the generated
// exam question bank.
//
//	academic-api serve                 run the HTTP API
//	academic-api sessions prune        delete expired chat session logs
//	academic-api cache key <question>  print the cache key for a question
//
// Configuration comes from the environment; a .env file in the working
// directory is loaded first when present.
//
// @title        Academic Assistant API
// @version      1.0
// @description  Academic chat assistant and generated exam question bank.
// @BasePath     /
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "academic-api",
		Short:         "Academic chat assistant and question bank API",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			// Best effort; real environment variables take precedence.
			_ = godotenv.Load()
		},
	}
	root.AddCommand(
		newServeCmd(),
		newSessionsCmd(),
		newCacheCmd(),
	)
	return root
}
