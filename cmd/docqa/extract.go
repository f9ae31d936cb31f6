package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"docqa/internal/config"
	"docqa/internal/indexer"
	"docqa/internal/llm"
	"docqa/internal/prompts"
)

func extractCmd() *cobra.Command {
	var withStats bool

	cmd := &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract question/answer pairs from a document as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			set, err := prompts.Load(cfg.PromptsFile)
			if err != nil {
				return fmt.Errorf("failed to load prompts: %w", err)
			}

			text, _, err := loadDocument(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			client := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName, cfg.LLMTemperature, cfg.LLMTimeout)
			pipeline, err := indexer.NewPipeline(indexer.NewExtractor(client, set, cfg.LLMTimeout),
				indexer.WithWindow(cfg.WindowSize, cfg.OverlapSize),
				indexer.WithConcurrency(cfg.ExtractConcurrency),
			)
			if err != nil {
				return err
			}

			pairs, stats := pipeline.Extract(cmd.Context(), text)

			var out any = pairs
			if withStats {
				out = struct {
					Pairs any                  `json:"pairs"`
					Stats *indexer.IngestStats `json:"stats"`
				}{pairs, stats}
			}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal pairs: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&withStats, "stats", false, "include extraction statistics")
	return cmd
}
