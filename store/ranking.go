package store

import "sort"

// Candidate is a stored document under consideration for one query.
type Candidate struct {
	ID        string
	Content   string
	Metadata  map[string]any
	Embedding []float32
}

// RankCandidates orders candidates by cosine similarity to the query
// embedding (most similar first, ties broken by original order) and returns
// the top n as parallel slices. Distances are 1 - similarity. No padding is
// performed when fewer than n candidates exist.
func RankCandidates(queryEmbedding []float32, candidates []Candidate, n int) (ids, documents []string, metadatas []map[string]any, distances []float64) {
	type scored struct {
		index int
		score float64
	}

	scores := make([]scored, len(candidates))
	for i, c := range candidates {
		scores[i] = scored{index: i, score: CosineSimilarity(queryEmbedding, c.Embedding)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if n > len(scores) {
		n = len(scores)
	}
	if n < 0 {
		n = 0
	}

	ids = make([]string, n)
	documents = make([]string, n)
	metadatas = make([]map[string]any, n)
	distances = make([]float64, n)

	for i := 0; i < n; i++ {
		c := candidates[scores[i].index]
		ids[i] = c.ID
		documents[i] = c.Content
		metadatas[i] = c.Metadata
		distances[i] = 1 - scores[i].score
	}

	return ids, documents, metadatas, distances
}
