package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"docqa/internal/app"
	"docqa/internal/config"
	"docqa/internal/service"
)

func askCmd() *cobra.Command {
	var (
		docs  []string
		debug bool
	)

	cmd := &cobra.Command{
		Use:   "ask --doc <file> <question>",
		Short: "Ingest documents into a temporary knowledge base and ask a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}

			a, err := app.New(ctx, cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := a.Knowledge.Reset(ctx); err != nil && !errors.Is(err, service.ErrNotFound) {
					cmd.PrintErrln("failed to reset knowledge base:", err)
				}
				_ = a.Close()
			}()

			for _, path := range docs {
				text, kind, err := loadDocument(ctx, path)
				if err != nil {
					return err
				}
				res, err := a.Knowledge.Ingest(ctx, service.IngestRequest{
					Filename: filepath.Base(path),
					Kind:     string(kind),
					Text:     text,
				})
				if err != nil {
					return fmt.Errorf("failed to ingest %s: %w", path, err)
				}
				cmd.PrintErrf("%s: %d pairs stored, %d total\n", res.Filename, res.Stats.PairsStored, res.TotalPairs)
			}

			result, err := a.QA.Ask(ctx, service.AskRequest{
				Question: strings.Join(args, " "),
				Debug:    debug,
			})
			if err != nil {
				return err
			}

			if debug {
				data, err := json.MarshalIndent(result, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to marshal result: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), result.Answer)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&docs, "doc", nil, "document to ingest (repeatable)")
	cmd.Flags().BoolVar(&debug, "debug", false, "print the full result with stage details as JSON")
	return cmd
}
