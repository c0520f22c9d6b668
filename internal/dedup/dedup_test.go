package dedup

import (
	"testing"
	"time"

	"github.com/Bloomy-HackRPI/bloomy/internal/models"
)

func TestAdmitOncePerGUID(t *testing.T) {
	d := New(time.Minute)
	now := time.Now()

	item := models.InboundItem{GUID: "guid-1", Text: "how is apple doing", ObservedAt: now}

	// The same message re-reported across two poll ticks.
	admitted, ok := d.Admit([]models.InboundItem{item})
	if !ok {
		t.Fatal("First tick should admit the item")
	}
	if admitted.GUID != "guid-1" {
		t.Errorf("Expected guid-1, got %s", admitted.GUID)
	}

	if _, ok := d.Admit([]models.InboundItem{item}); ok {
		t.Error("Second tick admitted a duplicate GUID")
	}
}

func TestAdmitOncePerTextBucket(t *testing.T) {
	d := New(time.Minute)
	now := time.Now()

	// No GUID: dedup falls back to text + seconds bucket.
	item := models.InboundItem{Text: "TSLA?", ObservedAt: now}

	if _, ok := d.Admit([]models.InboundItem{item}); !ok {
		t.Fatal("First presentation should be admitted")
	}
	if _, ok := d.Admit([]models.InboundItem{item}); ok {
		t.Error("Identical text in the same time bucket admitted twice")
	}
}

func TestAdmitRecognizesEitherKeyForm(t *testing.T) {
	d := New(time.Minute)
	now := time.Now()

	// First observation carries a GUID; the second observation of the same
	// physical message arrives without one. The secondary key recorded on
	// admission must still catch it.
	with := models.InboundItem{GUID: "guid-2", Text: "check NVDA", ObservedAt: now}
	without := models.InboundItem{Text: "check NVDA", ObservedAt: now}

	if _, ok := d.Admit([]models.InboundItem{with}); !ok {
		t.Fatal("Expected admission")
	}
	if _, ok := d.Admit([]models.InboundItem{without}); ok {
		t.Error("GUID-less representation of an admitted message was re-admitted")
	}
}

func TestAdmitSkipsSelfAndEmptyAndStale(t *testing.T) {
	d := New(time.Minute)
	now := time.Now()

	items := []models.InboundItem{
		{GUID: "a", Text: "mine", ObservedAt: now, FromMe: true},
		{GUID: "b", Text: "   ", ObservedAt: now},
		{GUID: "c", Text: "old news", ObservedAt: now.Add(-2 * time.Minute)},
		{GUID: "d", Text: "fresh", ObservedAt: now},
	}

	admitted, ok := d.Admit(items)
	if !ok {
		t.Fatal("Expected the fresh item to be admitted")
	}
	if admitted.GUID != "d" {
		t.Errorf("Expected item d, got %s", admitted.GUID)
	}
}

func TestAdmitAtMostOnePerTick(t *testing.T) {
	d := New(time.Minute)
	now := time.Now()

	items := []models.InboundItem{
		{GUID: "first", Text: "one", ObservedAt: now},
		{GUID: "second", Text: "two", ObservedAt: now},
	}

	admitted, ok := d.Admit(items)
	if !ok || admitted.GUID != "first" {
		t.Fatalf("Expected first item admitted, got %+v ok=%v", admitted, ok)
	}

	// The second item was not consumed; it is still admissible next tick.
	admitted, ok = d.Admit(items)
	if !ok || admitted.GUID != "second" {
		t.Fatalf("Expected second item on next tick, got %+v ok=%v", admitted, ok)
	}
}

func TestAdmitAllDuplicatesReturnsNone(t *testing.T) {
	d := New(time.Minute)
	now := time.Now()

	items := []models.InboundItem{{GUID: "x", Text: "hello", ObservedAt: now}}
	if _, ok := d.Admit(items); !ok {
		t.Fatal("Expected admission")
	}
	if _, ok := d.Admit(items); ok {
		t.Error("Expected no admission when all candidates are duplicates")
	}
	if d.Size() != 2 {
		t.Errorf("Expected 2 recorded keys (GUID + text bucket), got %d", d.Size())
	}
}
