package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"docqa/internal/loader"
)

var (
	verbose  bool
	kindFlag string
)

func main() {
	root := &cobra.Command{
		Use:   "docqa",
		Short: "Build a FAQ knowledge base from a document and query it",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
		SilenceUsage: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().StringVar(&kindFlag, "kind", "", "document kind (txt, pdf, md); default from file extension")

	root.AddCommand(windowsCmd())
	root.AddCommand(extractCmd())
	root.AddCommand(askCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := root.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadDocument reads path as the kind given by --kind or its extension.
func loadDocument(ctx context.Context, path string) (string, loader.Kind, error) {
	var (
		kind loader.Kind
		err  error
	)
	if kindFlag != "" {
		kind, err = loader.ParseKind(kindFlag)
	} else {
		kind, err = loader.KindFromFilename(path)
	}
	if err != nil {
		return "", "", err
	}

	text, err := loader.Load(ctx, path, kind)
	if err != nil {
		return "", "", err
	}
	return text, kind, nil
}
