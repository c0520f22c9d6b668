package ticker

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		input  string
		symbol string
		ok     bool
	}{
		// Already shaped like a ticker
		{"AAPL", "AAPL", true},
		{"F", "F", true},
		// Exact company name, case-insensitive
		{"apple", "AAPL", true},
		{"Tesla", "TSLA", true},
		{"general motors", "GM", true},
		// Substring in either direction, definition order wins
		{"how about nvidia today", "NVDA", true},
		{"microsof", "MSFT", true},
		// $-prefixed extraction from raw text
		{"thoughts on $GME?", "GME", true},
		{"buy SHOP now", "SHOP", true},
		// No match
		{"unknownxyz", "", false},
		{"", "", false},
		{"   ", "", false},
	}

	for _, tt := range tests {
		symbol, ok := Resolve(tt.input)
		if ok != tt.ok || symbol != tt.symbol {
			t.Errorf("Resolve(%q) = (%q, %v), expected (%q, %v)", tt.input, symbol, ok, tt.symbol, tt.ok)
		}
	}
}

func TestResolveDefinitionOrder(t *testing.T) {
	// "meta" is defined before "facebook"; both map to META, but an input
	// containing an earlier entry's name must resolve through that entry.
	symbol, ok := Resolve("is meta or facebook better")
	if !ok || symbol != "META" {
		t.Errorf("Expected META, got (%q, %v)", symbol, ok)
	}
}

func TestDisplayName(t *testing.T) {
	if name := DisplayName("AAPL"); name != "Apple" {
		t.Errorf("Expected 'Apple', got %q", name)
	}
	if name := DisplayName("ZZZZ"); name != "ZZZZ" {
		t.Errorf("Unknown symbol should fall back to itself, got %q", name)
	}
}
