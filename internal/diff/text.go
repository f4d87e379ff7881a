// Package diff compares a lot against its baseline lot.
//
// It has three independent parts: a word-level text diff aligned by the
// longest common subsequence, a keyed collection diff for ingredients and
// steps, and a rated-attribute diff with a magnitude ranking. Every function
// is pure and safe for concurrent use.
package diff

import "strings"

// Kind classifies a token in a text diff.
type Kind int

const (
	Common Kind = iota
	Removed
	Added
)

// String returns a human-readable token kind.
func (k Kind) String() string {
	switch k {
	case Common:
		return "common"
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "unknown"
	}
}

// Token is one word (or line) of a text diff.
type Token struct {
	Kind Kind
	Text string
}

// DefaultMaxCells bounds the LCS table size. Above it the coarse diff is used.
const DefaultMaxCells = 1 << 20

// TextDiffer computes token diffs. The zero value uses DefaultMaxCells.
type TextDiffer struct {
	// MaxCells caps len(baseline)*len(current) for the DP table.
	// Zero means DefaultMaxCells; negative disables the cap.
	MaxCells int
}

// DiffText is a word-level diff using the default differ.
func DiffText(baseline, current string) []Token {
	return TextDiffer{}.Words(baseline, current)
}

// DiffLines is a line-level diff using the default differ.
func DiffLines(baseline, current string) []Token {
	return TextDiffer{}.Lines(baseline, current)
}

// Words splits both inputs on whitespace and diffs the word sequences.
func (d TextDiffer) Words(baseline, current string) []Token {
	return d.Sequences(strings.Fields(baseline), strings.Fields(current))
}

// Lines splits both inputs on newlines and diffs the non-blank lines.
func (d TextDiffer) Lines(baseline, current string) []Token {
	return d.Sequences(splitLines(baseline), splitLines(current))
}

// Sequences diffs two already tokenized sequences.
func (d TextDiffer) Sequences(a, b []string) []Token {
	if len(a) == 0 && len(b) == 0 {
		return []Token{}
	}
	limit := d.MaxCells
	if limit == 0 {
		limit = DefaultMaxCells
	}
	if limit > 0 && len(a) > 0 && len(b) > limit/len(a) {
		return coarse(a, b)
	}
	return align(a, b, lcs(a, b))
}

// lcs returns the longest common subsequence of a and b. On a tie between
// the up and left cells the backtrack moves up, consuming a baseline token.
func lcs(a, b []string) []string {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil
	}

	// One flat slice; row i starts at i*(m+1).
	w := m + 1
	dp := make([]int, (n+1)*w)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				dp[i*w+j] = dp[(i-1)*w+j-1] + 1
			} else if up, left := dp[(i-1)*w+j], dp[i*w+j-1]; up >= left {
				dp[i*w+j] = up
			} else {
				dp[i*w+j] = left
			}
		}
	}

	out := make([]string, dp[n*w+m])
	k := len(out)
	for i, j := n, m; i > 0 && j > 0; {
		switch {
		case a[i-1] == b[j-1]:
			k--
			out[k] = a[i-1]
			i--
			j--
		case dp[(i-1)*w+j] >= dp[i*w+j-1]:
			i--
		default:
			j--
		}
	}
	return out
}

// align walks a, b and their common subsequence in lockstep, emitting
// common runs, then removed runs, then added runs, until both are consumed.
func align(a, b, common []string) []Token {
	out := make([]Token, 0, len(a)+len(b)-len(common))
	ai, bi, ci := 0, 0, 0

	for ai < len(a) || bi < len(b) {
		for ci < len(common) && ai < len(a) && bi < len(b) &&
			a[ai] == common[ci] && b[bi] == common[ci] {
			out = append(out, Token{Kind: Common, Text: a[ai]})
			ai++
			bi++
			ci++
		}
		for ai < len(a) && (ci >= len(common) || a[ai] != common[ci]) {
			out = append(out, Token{Kind: Removed, Text: a[ai]})
			ai++
		}
		for bi < len(b) && (ci >= len(common) || b[bi] != common[ci]) {
			out = append(out, Token{Kind: Added, Text: b[bi]})
			bi++
		}
	}
	return out
}

// coarse keeps the common prefix and suffix and reports everything between
// them as removed then added. Used when the DP table would be too large.
func coarse(a, b []string) []Token {
	pre := 0
	for pre < len(a) && pre < len(b) && a[pre] == b[pre] {
		pre++
	}
	suf := 0
	for suf < len(a)-pre && suf < len(b)-pre && a[len(a)-1-suf] == b[len(b)-1-suf] {
		suf++
	}

	out := make([]Token, 0, len(a)+len(b)-pre-suf)
	for _, t := range a[:pre] {
		out = append(out, Token{Kind: Common, Text: t})
	}
	for _, t := range a[pre : len(a)-suf] {
		out = append(out, Token{Kind: Removed, Text: t})
	}
	for _, t := range b[pre : len(b)-suf] {
		out = append(out, Token{Kind: Added, Text: t})
	}
	for _, t := range a[len(a)-suf:] {
		out = append(out, Token{Kind: Common, Text: t})
	}
	return out
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Baseline reconstructs the baseline side: common and removed tokens.
func Baseline(tokens []Token) []string {
	return side(tokens, Removed)
}

// Current reconstructs the current side: common and added tokens.
func Current(tokens []Token) []string {
	return side(tokens, Added)
}

func side(tokens []Token, kind Kind) []string {
	out := []string{}
	for _, t := range tokens {
		if t.Kind == Common || t.Kind == kind {
			out = append(out, t.Text)
		}
	}
	return out
}

// Changed reports whether any token was removed or added.
func Changed(tokens []Token) bool {
	for _, t := range tokens {
		if t.Kind != Common {
			return true
		}
	}
	return false
}

// AddedWords returns the added tokens in order.
func AddedWords(tokens []Token) []string {
	var out []string
	for _, t := range tokens {
		if t.Kind == Added {
			out = append(out, t.Text)
		}
	}
	return out
}
