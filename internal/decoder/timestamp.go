package decoder

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Decoded times must stay representable as RFC 3339.
const (
	minYear = 0
	maxYear = 9999
)

// ParseEpochSeconds decodes a whole-seconds Unix timestamp. Empty, null and
// non-numeric tokens are reported as ErrNullField: the feed uses the token
// shape itself to mark an absent value. Values beyond 64 bits or outside
// years 0..9999 are ErrTimestampOverflow.
func ParseEpochSeconds(token string) (time.Time, error) {
	tok := strings.TrimSpace(token)
	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			e := newError(ErrTimestampOverflow, "epoch seconds do not fit in 64 bits")
			e.Token = tok
			return time.Time{}, e
		}
		e := newError(ErrNullField, "no epoch seconds")
		e.Token = tok
		return time.Time{}, e
	}
	t := time.Unix(n, 0).UTC()
	if t.Year() < minYear || t.Year() > maxYear {
		e := newError(ErrTimestampOverflow, "epoch seconds fall outside years 0 to 9999")
		e.Token = tok
		return time.Time{}, e
	}
	return t, nil
}
