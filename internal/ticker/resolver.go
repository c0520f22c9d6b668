// Package ticker maps free-text company references to canonical stock symbols.
package ticker

import (
	"regexp"
	"strings"
)

var (
	symbolShape   = regexp.MustCompile(`^[A-Z]{1,5}$`)
	symbolExtract = regexp.MustCompile(`\$?([A-Z]{1,5})\b`)
)

// Resolve maps a free-text company reference to a canonical ticker symbol.
// Checks run in order:
//  1. input already shaped like a ticker (1–5 uppercase letters) is accepted verbatim;
//  2. exact case-insensitive match against the company table;
//  3. substring match in either direction, first table entry wins;
//  4. extraction of an uppercase token, optionally prefixed with $, from the raw text.
//
// Returns the symbol and true, or "" and false when nothing matches.
func Resolve(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if symbolShape.MatchString(input) {
		return input, true
	}

	clean := strings.ToLower(input)
	for _, m := range companyTable {
		if m.name == clean {
			return m.symbol, true
		}
	}

	for _, m := range companyTable {
		if strings.Contains(clean, m.name) || strings.Contains(m.name, clean) {
			return m.symbol, true
		}
	}

	if match := symbolExtract.FindStringSubmatch(input); match != nil {
		return match[1], true
	}

	return "", false
}

// DisplayName returns the company name for a symbol, or the symbol itself
// when unknown.
func DisplayName(symbol string) string {
	if name, ok := displayNames[symbol]; ok {
		return name
	}
	return symbol
}
