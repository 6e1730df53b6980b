// Package benchmark contains Go benchmarks for the tokenizer, field index,
// engine build and query pipeline, measuring throughput and allocation
// behaviour.
package benchmark

import (
	"fmt"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/corpus"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/internal/indexer/tokenizer"
	"github.com/Adithya-Monish-Kumar-K/sitesearch/pkg/config"
)

var topics = []string{"install", "configure", "deploy", "theme", "shortcode", "taxonomy", "menu", "search"}

func syntheticCorpus(n int) []corpus.Document {
	docs := make([]corpus.Document, 0, n)
	for i := 0; i < n; i++ {
		docs = append(docs, corpus.Document{
			ID:        corpus.DocID(fmt.Sprintf("doc-%d", i)),
			Title:     fmt.Sprintf("How to %s your %s", topics[i%len(topics)], topics[(i+1)%len(topics)]),
			Tags:      corpus.Tags(topics[(i+2)%len(topics)] + " guide"),
			Content:   fmt.Sprintf("This page explains %s, %s and %s for documentation sites.", topics[i%len(topics)], topics[(i+3)%len(topics)], topics[(i+5)%len(topics)]),
			Date:      fmt.Sprintf("2024-%02d-%02d", i%12+1, i%28+1),
			Summary:   "<p>summary</p>",
			Permalink: fmt.Sprintf("/docs/%d/", i),
		})
	}
	return docs
}

func BenchmarkFieldIndexAdd(b *testing.B) {
	idx := index.NewFieldIndex(tokenizer.New(tokenizer.ModeForward))
	text := index.FieldText{
		index.FieldTitle:   "benchmark title",
		index.FieldContent: "this is a benchmark document with several terms for testing the indexing performance",
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx.Add(fmt.Sprintf("doc-%d", i), text)
	}
}

func BenchmarkFieldIndexLookup(b *testing.B) {
	idx := index.NewFieldIndex(tokenizer.New(tokenizer.ModeForward))
	for i := 0; i < 10000; i++ {
		idx.Add(fmt.Sprintf("doc-%d", i), index.FieldText{index.FieldContent: "search engine with field indexing"})
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.Lookup(index.FieldContent, "sea")
	}
}

func BenchmarkFieldIndexLookupParallel(b *testing.B) {
	idx := index.NewFieldIndex(tokenizer.New(tokenizer.ModeForward))
	for i := 0; i < 10000; i++ {
		idx.Add(fmt.Sprintf("doc-%d", i), index.FieldText{index.FieldContent: "search engine with field indexing"})
	}
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			_ = idx.Lookup(index.FieldContent, "search")
		}
	})
}

// BenchmarkEngineBuild measures a full clear-and-index build per tokenizer
// mode.
func BenchmarkEngineBuild(b *testing.B) {
	docs := syntheticCorpus(1000)
	for _, mode := range []string{"strict", "forward", "reverse", "full"} {
		b.Run(mode, func(b *testing.B) {
			engine, err := indexer.NewEngine(config.IndexerConfig{Tokenize: mode})
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				engine.Build(docs)
			}
		})
	}
}
