// Research Agent - Question Answering over Your Own Documents in Go
//
// Research Agent is a small retrieval-augmented generation (RAG) toolkit.
// Documents are ingested into a vector store collection; questions are
// answered by a three-stage pipeline that retrieves the most similar
// documents and asks a language model to answer strictly from them, with
// the sources of the retrieved documents cited in the result.
//
// # Quick Start
//
// Install the package:
//
//	go get github.com/smallnest/researchagent
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/researchagent/ingest"
//		"github.com/smallnest/researchagent/model"
//		"github.com/smallnest/researchagent/rag"
//		"github.com/smallnest/researchagent/store"
//	)
//
//	func main() {
//		ctx := context.Background()
//
//		collection := store.NewMemoryCollection("docs", nil)
//		ingest.Run(ctx, collection, []ingest.Document{
//			{Content: "ChromaDB is a vector database.", Metadata: map[string]any{"source": "intro.txt"}},
//		})
//
//		m, _ := model.NewOpenAIModel()
//		result, _ := rag.Run(ctx, "What is ChromaDB?", collection, m)
//		fmt.Println(result.Answer)
//	}
//
// # Package Structure
//
// graph/
// The sequential graph executor. A Graph declares a closed set of named
// nodes and an entry point; each node mutates the shared per-run state and
// returns either a transition to the next node or a terminal Step carrying
// the final value. Every executed node is recorded in the run's history.
//
// rag/
// The question-answering workflow: query logging, top-K retrieval from the
// collection, grounded answer generation. Exposes the Run service with
// per-stage timings and an empty-collection short-circuit.
//
// ingest/
// Document ingestion through a one-node graph, plus file loaders for plain
// text, markdown and HTML. Re-ingesting an existing ID overwrites rather
// than duplicates.
//
// chat/
// A one-node prompt-to-response workflow with optional streaming and a
// bounded conversation history for multi-turn sessions.
//
// hello/
// A four-node demonstration pipeline that exercises the executor without
// external services.
//
// store/
// The Collection contract and its backends: in-memory, SQLite
// (store/sqlite), Redis (store/redis), PostgreSQL (store/postgres) and an
// adapter over langchaingo vector stores.
//
// model/
// The generation model contract: a go-openai backed client for
// OpenAI-compatible endpoints and an adapter over any langchaingo model.
//
// config/, log/, cmd/research-agent/
// Configuration loading (.env, YAML, environment), leveled logging with a
// golog adapter, and the cobra CLI with rag, ingest, chat and hello
// subcommands.
//
// # Configuration
//
// The CLI reads settings from defaults, an optional YAML file and
// RESEARCH_AGENT_* environment variables, in that order. OPENAI_API_KEY is
// picked up for the openai provider when no explicit key is set.
package researchagent // import "github.com/smallnest/researchagent"
