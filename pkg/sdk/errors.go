package patentcompass

import (
	"errors"

	"github.com/kailas-cloud/patentcompass/internal/domain"
)

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrEmptyQuery        = domain.ErrEmptyQuery
	ErrInvalidK          = domain.ErrInvalidK
	ErrPatentNotFound    = domain.ErrPatentNotFound
	ErrSchema            = domain.ErrSchema
	ErrModelUnavailable  = domain.ErrModelUnavailable
	ErrQueryFailed       = domain.ErrQueryFailed
	ErrVectorDimMismatch = domain.ErrVectorDimMismatch
)

// ErrNoCorpus is returned by New when neither WithCorpusFile nor WithRows is given.
var ErrNoCorpus = errors.New("patentcompass: corpus required (use WithCorpusFile or WithRows)")

// ErrNoEmbedder is returned by New when no embedding model is configured.
var ErrNoEmbedder = errors.New("patentcompass: embedder required (use WithEmbedder or WithOpenAI)")
