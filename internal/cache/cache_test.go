package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/credlens/credlens/internal/analysis"
)

func TestKeyDistinguishesDomainFromText(t *testing.T) {
	a := Key(analysis.Content{Text: "same text", SourceDomain: "a.com"})
	b := Key(analysis.Content{Text: "same text", SourceDomain: "b.com"})
	c := Key(analysis.Content{Text: "same texta.com"})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c, "domain and text must not collide when concatenated")
	assert.Equal(t, a, Key(analysis.Content{Text: "same text", SourceDomain: "a.com"}))
}

func TestGetMissesOnUnknownKey(t *testing.T) {
	c := New(time.Minute)
	_, ok := c.Get("nothing-here")
	assert.False(t, ok)
}

func TestSetThenGet(t *testing.T) {
	c := New(time.Minute)
	want := analysis.Result{Score: 72, Verdict: analysis.VerdictLikelyReal}

	key := Key(analysis.Content{Text: "cached text"})
	c.Set(key, want)

	got, ok := c.Get(key)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestGetMissesAfterExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	key := Key(analysis.Content{Text: "short lived"})
	c.Set(key, analysis.Result{Score: 50})

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get(key)
	assert.False(t, ok)
}
