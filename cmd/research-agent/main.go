// research-agent is the command line interface to the research agent:
// question answering over ingested documents, document ingestion, plain
// chat and a small graph demonstration.
//
// Usage:
//
//	research-agent rag    --query "What is ChromaDB?" [--collection docs]
//	research-agent ingest --dir ./documents [--collection docs]
//	research-agent chat   --prompt "Hello" [--stream]
//	research-agent hello
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}
