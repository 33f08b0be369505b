package embedding

import (
	"context"
	"math"
	"testing"
)

func TestHashEmbedderDeterministic(t *testing.T) {
	e := NewHashEmbedder(64)
	a, err := e.Embed(context.Background(), "grilled chicken with 165 calories")
	if err != nil {
		t.Fatal(err)
	}
	b, err := e.Embed(context.Background(), "grilled chicken with 165 calories")
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("embeddings differ at %d", i)
		}
	}

	c, _ := e.Embed(context.Background(), "banana with 89 calories")
	same := true
	for i := range a {
		if a[i] != c[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("different texts produced identical embeddings")
	}
}

func TestHashEmbedderUnitNorm(t *testing.T) {
	e := NewHashEmbedder(128)
	vec, err := e.Embed(context.Background(), "salmon high protein")
	if err != nil {
		t.Fatal(err)
	}
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	if math.Abs(sum-1) > 1e-5 {
		t.Errorf("squared norm = %v, want 1", sum)
	}
}

func TestHashEmbedderBatch(t *testing.T) {
	e := NewHashEmbedder(32)
	vecs, err := e.EmbedBatch(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatal(err)
	}
	if len(vecs) != 3 {
		t.Fatalf("got %d vectors, want 3", len(vecs))
	}
	for i, v := range vecs {
		if len(v) != 32 {
			t.Errorf("vector %d has dim %d, want 32", i, len(v))
		}
	}
}

func TestCacheEviction(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Set("c", []float32{3})

	if _, ok := c.Get("a"); ok {
		t.Error("oldest entry not evicted")
	}
	if v, ok := c.Get("c"); !ok || v[0] != 3 {
		t.Error("newest entry missing")
	}
	if c.Len() != 2 {
		t.Errorf("len = %d, want 2", c.Len())
	}
}

func TestCacheLRUOrder(t *testing.T) {
	c := NewCache(2)
	c.Set("a", []float32{1})
	c.Set("b", []float32{2})
	c.Get("a") // refresh a
	c.Set("c", []float32{3})

	if _, ok := c.Get("a"); !ok {
		t.Error("recently used entry evicted")
	}
	if _, ok := c.Get("b"); ok {
		t.Error("least recently used entry survived")
	}
}

func TestWordTokenizer(t *testing.T) {
	tok := &WordTokenizer{}
	ids, mask, types := tok.Tokenize("high protein food", 16)

	if len(ids) != 16 || len(mask) != 16 || len(types) != 16 {
		t.Fatalf("lengths = %d/%d/%d, want 16", len(ids), len(mask), len(types))
	}
	if ids[0] != 101 {
		t.Errorf("ids[0] = %d, want 101 ([CLS])", ids[0])
	}
	if ids[4] != 102 {
		t.Errorf("ids[4] = %d, want 102 ([SEP])", ids[4])
	}
	// 3 words + CLS + SEP attended
	var attended int64
	for _, m := range mask {
		attended += m
	}
	if attended != 5 {
		t.Errorf("attention sum = %d, want 5", attended)
	}
}

func TestWordTokenizerTruncates(t *testing.T) {
	tok := &WordTokenizer{}
	ids, _, _ := tok.Tokenize("a b c d e f g h", 4)
	if len(ids) != 4 {
		t.Fatalf("len = %d, want 4", len(ids))
	}
	if ids[3] != 102 {
		t.Errorf("ids[3] = %d, want 102 ([SEP])", ids[3])
	}
}

func TestHashStringNonNegative(t *testing.T) {
	for _, s := range []string{"", "protein", "a very long food description with many words"} {
		if HashString(s) < 0 {
			t.Errorf("HashString(%q) negative", s)
		}
	}
}
