package patentcompass

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Engine.
type Option interface {
	apply(*engineConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*engineConfig)

func (f optionFunc) apply(c *engineConfig) { f(c) }

type engineConfig struct {
	corpusPath  string
	corpusSheet string
	header      []string
	rows        [][]string

	imageURLTemplate string
	defaultK         int
	maxK             int

	embedder Embedder
	openai   *openAIConfig

	cacheDriver   string // "valkey" or "redis"
	cacheAddrs    []string
	cachePassword string

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

type openAIConfig struct {
	baseURL    string
	apiKey     string
	model      string
	dimensions int
}

// WithCorpusFile reads patents from a .xlsx, .xlsm, .csv or .parquet file.
// sheet selects the Excel worksheet; empty means the first one.
func WithCorpusFile(path, sheet string) Option {
	return optionFunc(func(c *engineConfig) {
		c.corpusPath = path
		c.corpusSheet = sheet
	})
}

// WithRows supplies the patent table in memory. The header must contain
// "Publication Number", "Title (original language)" and
// "Abstract (original language)" (case-insensitive). Takes precedence over
// WithCorpusFile.
func WithRows(header []string, rows [][]string) Option {
	return optionFunc(func(c *engineConfig) {
		c.header = header
		c.rows = rows
	})
}

// WithImageURLTemplate derives image URLs from publication numbers. "{id}"
// in tmpl is replaced by the number; without it, "{id}.png" is appended.
func WithImageURLTemplate(tmpl string) Option {
	return optionFunc(func(c *engineConfig) {
		c.imageURLTemplate = tmpl
	})
}

// WithDefaultK sets the result count used by Top. Default: 3.
func WithDefaultK(k int) Option {
	return optionFunc(func(c *engineConfig) {
		c.defaultK = k
	})
}

// WithMaxK caps the result count of any query. Default: 100.
func WithMaxK(k int) Option {
	return optionFunc(func(c *engineConfig) {
		c.maxK = k
	})
}

// WithEmbedder sets the text embedding model.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *engineConfig) {
		c.embedder = e
	})
}

// WithOpenAI embeds through an OpenAI-compatible /embeddings endpoint
// (OpenAI, Infinity, TEI, vLLM). Ignored when WithEmbedder is set.
func WithOpenAI(baseURL, apiKey, model string, dimensions int) Option {
	return optionFunc(func(c *engineConfig) {
		c.openai = &openAIConfig{
			baseURL:    baseURL,
			apiKey:     apiKey,
			model:      model,
			dimensions: dimensions,
		}
	})
}

// WithValkey caches embeddings in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *engineConfig) {
		c.cacheDriver = "valkey"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithRedis caches embeddings in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *engineConfig) {
		c.cacheDriver = "redis"
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
	})
}

// WithLogger enables structured logging for engine operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *engineConfig) {
		c.logger = l
	})
}

// WithPrometheus registers engine metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *engineConfig) {
		c.metricsReg = reg
	})
}
