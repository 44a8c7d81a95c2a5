package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/researchagent/rag"
	"github.com/smallnest/researchagent/store"
)

var ragFlags struct {
	query string
	topK  int
}

var ragCmd = &cobra.Command{
	Use:   "rag",
	Short: "Answer a question from the ingested documents",
	RunE:  runRag,
}

func init() {
	f := ragCmd.Flags()
	f.StringVar(&ragFlags.query, "query", "", "Question to answer (required)")
	f.IntVar(&ragFlags.topK, "top-k", 0, "Number of documents to retrieve (default from config)")

	_ = ragCmd.MarkFlagRequired("query")
}

func runRag(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	collection, err := openCollection(ctx, cfg, false)
	if err != nil {
		if store.IsCollectionNotFound(err) {
			return fmt.Errorf("%w\nRun 'research-agent ingest' first", err)
		}
		return err
	}

	m, err := newModel(cfg)
	if err != nil {
		return err
	}

	topK := cfg.TopK
	if ragFlags.topK > 0 {
		topK = ragFlags.topK
	}

	result, err := rag.Run(ctx, ragFlags.query, collection, m, rag.WithTopK(topK))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headingStyle.Render("Answer"))
	fmt.Fprintln(out, answerStyle.Render(result.Answer))
	fmt.Fprintln(out, timingStyle.Render(fmt.Sprintf(
		"retrieval %v · generation %v · total %v",
		result.RetrievalTime.Round(timeRounding),
		result.GenerationTime.Round(timeRounding),
		result.TotalTime.Round(timeRounding),
	)))
	return nil
}
