package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/academix/academic-api/internal/cache"
	"github.com/academix/academic-api/internal/prompt"
	"github.com/academix/academic-api/internal/sysutil"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the answer cache",
	}

	var lang, contextTag string
	key := &cobra.Command{
		Use:   "key <question>",
		Short: "Print the cache key the chat service would use for a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if lang != "es" && lang != "en" {
				return fmt.Errorf("--lang must be es or en, got %q", lang)
			}
			p := prompt.Build(strings.Join(args, " "), lang, sysutil.FirstNonEmpty(contextTag, prompt.DefaultContext))
			fmt.Fprintln(cmd.OutOrStdout(), cache.Key(p))
			return nil
		},
	}
	key.Flags().StringVar(&lang, "lang", "es", "answer language (es|en)")
	key.Flags().StringVar(&contextTag, "context", prompt.DefaultContext, "academic context tag")

	cmd.AddCommand(key)
	return cmd
}
