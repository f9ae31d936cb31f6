package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"docqa/internal/indexer"
)

func windowsCmd() *cobra.Command {
	var windowSize, overlapSize int

	cmd := &cobra.Command{
		Use:   "windows <file>",
		Short: "Show how a document is split into extraction windows",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, _, err := loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			windows, err := indexer.Split(text, windowSize, overlapSize)
			if err != nil {
				return err
			}

			for _, w := range windows {
				tail := ""
				if w.Tail {
					tail = " (tail)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "[%d] runes %d-%d len %d%s\n", w.Index, w.Start, w.End, w.Len(), tail)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d windows\n", len(windows))
			return nil
		},
	}

	cmd.Flags().IntVar(&windowSize, "window", indexer.DefaultWindowSize, "window size in runes")
	cmd.Flags().IntVar(&overlapSize, "overlap", indexer.DefaultOverlapSize, "overlap between windows in runes")
	return cmd
}
