package memoryindex

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// embedDim is the dimensionality of the lexical hash embedding.
const embedDim = 128

// embed maps text to a normalized bag-of-tokens hash vector. It is a
// deterministic lexical embedding, not a semantic one: tokens are lowered,
// hashed into buckets and the resulting histogram is L2-normalized. Good
// enough for ranking achievement/exercise snippets by shared vocabulary;
// swap the backend for a real embedding index when semantic recall matters.
func embed(text string) []float32 {
	vec := make([]float32, embedDim)
	for _, token := range tokenize(text) {
		h := fnv.New32a()
		h.Write([]byte(token))
		vec[h.Sum32()%embedDim]++
	}
	var norm float32
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		return vec
	}
	inv := 1 / float32(math.Sqrt(float64(norm)))
	for i := range vec {
		vec[i] *= inv
	}
	return vec
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
