// Package patentcompass embeds the patent semantic search engine in a Go
// program without running the HTTP service.
//
// The engine loads a patent table once, embeds every patent description and
// answers free-text queries with the most similar patents:
//
//	eng, _ := patentcompass.New(ctx,
//	    patentcompass.WithCorpusFile("patentes.xlsx", ""),
//	    patentcompass.WithEmbedder(patentcompass.NewHashEmbedder(384)),
//	)
//	hits, _ := eng.Search(ctx, "Certificación calidad de miel.", 3)
//	for _, h := range hits {
//	    fmt.Println(h.Patent.ID, h.Patent.Title, h.Score)
//	}
//
// Plug in a real sentence-embedding model with WithEmbedder or WithOpenAI.
// Embeddings can be cached in Redis or Valkey with WithRedis / WithValkey.
package patentcompass
