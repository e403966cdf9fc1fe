package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/search-server/internal/indexer/tokenizer"
)

var sampleTexts = map[string]string{
	"short":  "белый кот и модный ошейник",
	"medium": strings.Repeat("пушистый кот пушистый хвост ухоженный пёс выразительные глаза ", 8),
	"long":   strings.Repeat("ухоженный скворец евгений и белый кот на модном ошейнике в саду ", 200),
}

func BenchmarkTokenize(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Tokenize(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkStopWordFilter(b *testing.B) {
	stop, err := tokenizer.ParseStopWords("и в на")
	if err != nil {
		b.Fatal(err)
	}
	text := sampleTexts["long"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		tokens := stop.Filter(text)
		_ = tokens
	}
}

func BenchmarkTokenizeVaryingSize(b *testing.B) {
	sizes := []int{10, 100, 500, 1000, 5000}
	baseWord := "distributed search analytics platform indexing "
	for _, size := range sizes {
		text := strings.Repeat(baseWord, size/len(baseWord)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := tokenizer.Tokenize(text)
				_ = tokens
			}
		})
	}
}
