// Package decoder turns raw OpenSky /states/all replies into typed state vectors.
//
// The reply is scanned by hand instead of going through encoding/json: the feed
// is best-effort and a single bad record must not discard the rest of a batch.
// Every function here is pure and safe for concurrent use.
package decoder

import (
	"fmt"
	"strings"
)

// SplitEnvelope strips the outer {...} of a reply and returns its two
// top-level "key":value members, unparsed.
func SplitEnvelope(raw string) (first, second string, err error) {
	s := strings.TrimSpace(raw)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		return "", "", newError(ErrMalformedEnvelope, "reply is not wrapped in {}")
	}
	body := s[1 : len(s)-1]

	commas := topLevelCommas(body)
	if len(commas) != 1 {
		return "", "", newError(ErrMalformedEnvelope,
			fmt.Sprintf("expected 2 top-level members, found %d separators", len(commas)))
	}
	return body[:commas[0]], body[commas[0]+1:], nil
}

// topLevelCommas returns the offsets of commas at depth 0. Delimiters inside
// double-quoted strings are ignored.
func topLevelCommas(s string) []int {
	var (
		commas  []int
		depth   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch c {
			case '\\':
				i++
			case '"':
				inQuote = false
			}
			continue
		}
		switch c {
		case '"':
			inQuote = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
		case ',':
			if depth == 0 {
				commas = append(commas, i)
			}
		}
	}
	return commas
}

// ParseMember splits one "key":value member at the first colon outside quotes
// and returns the unquoted key and the trimmed value text.
func ParseMember(member string) (key, value string, err error) {
	colon := indexUnquoted(member, ':')
	if colon < 0 {
		return "", "", newError(ErrMalformedMember, fmt.Sprintf("no ':' in %q", abbreviate(member)))
	}

	k := strings.TrimSpace(member[:colon])
	if len(k) < 2 || k[0] != '"' || k[len(k)-1] != '"' {
		e := newError(ErrMalformedKey, fmt.Sprintf("key %q is not quoted", abbreviate(k)))
		e.Token = k
		return "", "", e
	}
	return k[1 : len(k)-1], strings.TrimSpace(member[colon+1:]), nil
}

func indexUnquoted(s string, target byte) int {
	inQuote := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inQuote {
			switch c {
			case '\\':
				i++
			case '"':
				inQuote = false
			}
			continue
		}
		if c == '"' {
			inQuote = true
		} else if c == target {
			return i
		}
	}
	return -1
}

const maxQuoted = 64

func abbreviate(s string) string {
	if len(s) <= maxQuoted {
		return s
	}
	return s[:maxQuoted] + "..."
}
