package embedder

import (
	"context"
	"hash/fnv"
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// weight of character trigram features relative to whole-word features
const trigramWeight = 0.5

// HashingEmbedder projects word and character-trigram features into a fixed
// number of buckets with signed feature hashing, then L2-normalizes. It needs
// no model server, so it backs tests and offline deployments.
type HashingEmbedder struct {
	dimension int
}

func NewHashingEmbedder(dimension int) *HashingEmbedder {
	return &HashingEmbedder{dimension: dimension}
}

func (e *HashingEmbedder) Dimension() int {
	return e.dimension
}

func (e *HashingEmbedder) Model() string {
	return "feature-hashing-v1"
}

func (e *HashingEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float32, e.dimension)

	for _, token := range tokenize(text) {
		e.add(vec, "w:"+token, 1)

		runes := []rune(token)
		for i := 0; i+3 <= len(runes); i++ {
			e.add(vec, "t:"+string(runes[i:i+3]), trigramWeight)
		}
	}

	normalize(vec)

	return vec, nil
}

func (e *HashingEmbedder) add(vec []float32, feature string, weight float32) {
	h := fnv.New64a()
	h.Write([]byte(feature)) //nolint:errcheck
	sum := h.Sum64()

	idx := int(sum % uint64(e.dimension))
	if sum&(1<<63) != 0 {
		weight = -weight
	}

	vec[idx] += weight
}

func tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

func normalize(vec []float32) {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}

	if sum == 0 {
		return
	}

	norm := float32(math.Sqrt(sum))
	for i := range vec {
		vec[i] /= norm
	}
}
