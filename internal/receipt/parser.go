// Package receipt turns raw OCR text into ranked candidate transactions.
//
// The pipeline is a single-pass, stateless transform: extract monetary
// amounts with ordered patterns, pair each with a nearby description using
// keyword heuristics, score a confidence, then dedup and rank. It never
// fails; malformed or empty input yields an empty result.
package receipt

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"fintrack/internal/core"
)

// Amounts above this are treated as OCR noise rather than transactions.
const maxAmount = 100000

// minConfidence is the cutoff below which candidates are dropped.
const minConfidence = 0.3

// descriptionWindow is how many characters around the amount are searched for
// description words.
const descriptionWindow = 50

const fallbackDescription = "Transaction from receipt"

// Ordered amount patterns: $-prefixed, bare numbers, then USD-prefixed and
// USD-suffixed. All allow thousands commas and an optional 2-decimal
// fraction.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\$\s*([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`\b([0-9,]+(?:\.[0-9]{2})?)\b`),
	regexp.MustCompile(`USD\s*([0-9,]+(?:\.[0-9]{2})?)`),
	regexp.MustCompile(`([0-9,]+(?:\.[0-9]{2})?)\s*USD`),
}

// Words containing any of these mark a line as transaction-like.
var transactionKeywords = []string{
	"purchase", "payment", "charge", "debit", "credit", "withdrawal", "deposit",
	"grocery", "gas", "restaurant", "coffee", "shopping", "amazon", "uber",
	"salary", "income", "refund", "transfer", "fee", "subscription",
}

var digitsOnly = regexp.MustCompile(`^\d+$`)

// Parse extracts candidate transactions from text, ordered by descending
// confidence and deduplicated by (amount, description).
func Parse(text string) []core.Candidate {
	var candidates []core.Candidate
	for _, amount := range extractAmounts(text) {
		amountStr := formatAmount(amount)
		description := extractDescription(text, amountStr)
		confidence := scoreConfidence(text, amount, amountStr, description)
		if confidence > minConfidence {
			candidates = append(candidates, core.Candidate{
				Amount:      amount,
				Description: description,
				Confidence:  confidence,
			})
		}
	}

	candidates = dedupe(candidates)
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Confidence > candidates[j].Confidence
	})
	return candidates
}

// extractAmounts collects every plausible monetary value in first-seen order,
// deduplicating identical numeric values across patterns.
func extractAmounts(text string) []float64 {
	seen := make(map[float64]bool)
	var amounts []float64
	for _, pattern := range amountPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			raw := strings.ReplaceAll(m[1], ",", "")
			amount, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				continue
			}
			if amount <= 0 || amount >= maxAmount {
				continue
			}
			if !seen[amount] {
				seen[amount] = true
				amounts = append(amounts, amount)
			}
		}
	}
	return amounts
}

// extractDescription finds the amount's first textual occurrence and mines a
// window around it for keyword-bearing words, falling back to the first three
// non-numeric words and finally to a fixed literal.
func extractDescription(text, amountStr string) string {
	idx := strings.Index(text, amountStr)
	if idx < 0 {
		return fallbackDescription
	}

	start := max(0, idx-descriptionWindow)
	end := min(len(text), idx+descriptionWindow)
	window := text[start:end]

	var keyworded []string
	for _, word := range strings.Fields(window) {
		if len(word) > 2 && containsKeyword(word) {
			keyworded = append(keyworded, word)
		}
	}
	if len(keyworded) > 0 {
		return truncate(strings.Join(keyworded, " "), descriptionWindow)
	}

	var nearby []string
	for _, word := range strings.Fields(window) {
		if len(word) > 2 && !digitsOnly.MatchString(word) {
			nearby = append(nearby, word)
			if len(nearby) == 3 {
				break
			}
		}
	}
	if len(nearby) > 0 {
		return truncate(strings.Join(nearby, " "), descriptionWindow)
	}
	return fallbackDescription
}

// scoreConfidence applies the fixed heuristic: 0.5 base, bonuses for currency
// markers, keywords and plausible magnitudes, a penalty for round numbers
// over 100, clamped to [0, 1].
func scoreConfidence(text string, amount float64, amountStr, description string) float64 {
	confidence := 0.5

	if hasCurrencyMarker(text, amountStr) {
		confidence += 0.2
	}
	if containsKeyword(description) {
		confidence += 0.2
	}

	switch {
	case amount >= 0.01 && amount <= 1000:
		confidence += 0.1
	case amount > 1000 && amount <= 10000:
		confidence += 0.05
	}

	if amount > 100 && amount == math.Trunc(amount) {
		confidence -= 0.1
	}

	return math.Min(1, math.Max(0, confidence))
}

// hasCurrencyMarker reports whether the amount appears adjacent to a currency
// marker anywhere in the text.
func hasCurrencyMarker(text, amountStr string) bool {
	for _, marked := range []string{
		"$" + amountStr,
		"$ " + amountStr,
		"USD " + amountStr,
		"USD" + amountStr,
		amountStr + " USD",
		amountStr + "USD",
	} {
		if strings.Contains(text, marked) {
			return true
		}
	}
	return false
}

func containsKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range transactionKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func dedupe(in []core.Candidate) []core.Candidate {
	type key struct {
		amount      float64
		description string
	}
	seen := make(map[key]bool, len(in))
	out := in[:0]
	for _, c := range in {
		k := key{c.Amount, c.Description}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, c)
	}
	return out
}

// formatAmount is the canonical decimal representation used to locate the
// amount back in the source text.
func formatAmount(a float64) string {
	return strconv.FormatFloat(a, 'f', -1, 64)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
