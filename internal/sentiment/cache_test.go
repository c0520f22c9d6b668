package sentiment

import (
	"testing"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

func TestCacheFreshAndStale(t *testing.T) {
	c := NewCache(15 * time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }

	c.Put("AAPL", okVerdict(models.Bullish), "Yahoo Finance")

	entry, ok := c.Get("AAPL")
	if !ok {
		t.Fatal("Expected fresh entry")
	}
	if entry.SourceName != "Yahoo Finance" {
		t.Errorf("Expected source name preserved, got %s", entry.SourceName)
	}

	// One second before the TTL boundary the entry is still served.
	c.now = func() time.Time { return base.Add(15*time.Minute - time.Second) }
	if _, ok := c.Get("AAPL"); !ok {
		t.Error("Entry inside the TTL should be fresh")
	}

	// At the boundary it is stale.
	c.now = func() time.Time { return base.Add(15 * time.Minute) }
	if _, ok := c.Get("AAPL"); ok {
		t.Error("Entry at the TTL boundary should be stale")
	}
}

func TestCacheOverwrite(t *testing.T) {
	c := NewCache(time.Minute)
	c.Put("AAPL", okVerdict(models.Bullish), "Yahoo Finance")
	c.Put("AAPL", okVerdict(models.Bearish), "MarketAux")

	entry, ok := c.Get("AAPL")
	if !ok {
		t.Fatal("Expected entry")
	}
	if entry.Verdict.Label != models.Bearish || entry.SourceName != "MarketAux" {
		t.Errorf("Expected overwritten entry, got %+v", entry)
	}
}

func TestCacheAge(t *testing.T) {
	c := NewCache(time.Minute)
	base := time.Now()
	c.now = func() time.Time { return base }

	if _, ok := c.Age("AAPL"); ok {
		t.Error("Expected no age for missing entry")
	}

	c.Put("AAPL", okVerdict(models.Neutral), "Yahoo Finance")
	c.now = func() time.Time { return base.Add(5 * time.Minute) }

	age, ok := c.Age("AAPL")
	if !ok || age != 5*time.Minute {
		t.Errorf("Expected age 5m, got %v ok=%v", age, ok)
	}
}
