package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/smallnest/researchagent/ingest"
)

var ingestFlags struct {
	dir   string
	files []string
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load documents into the vector store",
	RunE:  runIngest,
}

func init() {
	f := ingestCmd.Flags()
	f.StringVar(&ingestFlags.dir, "dir", "", "Directory of documents to ingest")
	f.StringSliceVar(&ingestFlags.files, "file", nil, "Individual file to ingest (repeatable)")

	ingestCmd.MarkFlagsOneRequired("dir", "file")
}

func runIngest(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	collection, err := openCollection(ctx, cfg, true)
	if err != nil {
		return err
	}

	var docs []ingest.Document
	if ingestFlags.dir != "" {
		docs, err = ingest.LoadDirectory(ingestFlags.dir)
		if err != nil {
			return err
		}
	}
	for _, path := range ingestFlags.files {
		doc, err := ingest.LoadFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
	}
	if len(docs) == 0 {
		return fmt.Errorf("no ingestable documents found")
	}

	summary, err := ingest.Run(ctx, collection, docs)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, headingStyle.Render("Ingested"))
	fmt.Fprintf(out, "%d documents into collection %q\n", summary.Ingested, cfg.Collection)
	fmt.Fprintln(out, timingStyle.Render(fmt.Sprintf("took %v", summary.Elapsed.Round(timeRounding))))
	return nil
}
