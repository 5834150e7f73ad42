// Package hashembed is a deterministic, dependency-free embedder based on
// feature hashing of word unigrams and character trigrams. It stands in for
// the sentence-embedding model in tests and offline runs; it has no
// cross-lingual ability.
package hashembed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/kailas-cloud/patentcompass/internal/domain"
)

const (
	wordWeight    = 1.0
	trigramWeight = 0.5
)

// Embedder maps text to a unit vector of fixed dimension. Text with no
// tokens maps to the zero vector.
type Embedder struct {
	dim int
}

// New creates an embedder producing dim-sized vectors (DefaultDimensions if dim <= 0).
func New(dim int) *Embedder {
	if dim <= 0 {
		dim = domain.DefaultDimensions
	}
	return &Embedder{dim: dim}
}

// Dimensions returns the vector size.
func (e *Embedder) Dimensions() int { return e.dim }

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, err
	}
	vec, n := e.vector(text)
	return domain.EmbeddingResult{Embedding: vec, PromptTokens: n, TotalTokens: n}, nil
}

// BatchEmbed implements domain.BatchEmbedder. Each text is embedded independently.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, t := range texts {
		if err := ctx.Err(); err != nil {
			return domain.BatchEmbeddingResult{}, err
		}
		vec, n := e.vector(t)
		out.Embeddings[i] = vec
		out.PromptTokens += n
		out.TotalTokens += n
	}
	return out, nil
}

// HealthCheck always succeeds: there is no model to acquire.
func (e *Embedder) HealthCheck(context.Context) error { return nil }

func (e *Embedder) vector(text string) ([]float32, int) {
	acc := make([]float64, e.dim)
	words := tokenize(text)
	for _, w := range words {
		e.add(acc, "w:"+w, wordWeight)
		padded := []rune("^" + w + "$")
		for i := 0; i+3 <= len(padded); i++ {
			e.add(acc, "t:"+string(padded[i:i+3]), trigramWeight)
		}
	}

	var sum float64
	for _, v := range acc {
		sum += v * v
	}
	vec := make([]float32, e.dim)
	if sum == 0 {
		return vec, len(words)
	}
	n := math.Sqrt(sum)
	for i, v := range acc {
		vec[i] = float32(v / n)
	}
	return vec, len(words)
}

func (e *Embedder) add(acc []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	bucket := int(sum % uint64(e.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	acc[bucket] += weight
}

// tokenize lowercases text and splits it into letter/digit runs of at least two runes.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= 2 {
			out = append(out, f)
		}
	}
	return out
}
