package decoder

import (
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEpochSeconds(t *testing.T) {
	tests := []struct {
		name    string
		token   string
		want    int64
		wantErr error
	}{
		{name: "typical", token: "1610000000", want: 1610000000},
		{name: "zero", token: "0", want: 0},
		{name: "explicit plus", token: "+42", want: 42},
		{name: "negative", token: "-86400", want: -86400},
		{name: "padded", token: "  1609999990 ", want: 1609999990},
		{name: "last second of 9999", token: "253402300799", want: 253402300799},
		{name: "first second of year 0", token: "-62167219200", want: -62167219200},
		{name: "max int64", token: "9223372036854775807", wantErr: ErrTimestampOverflow},
		{name: "year 10000", token: "253402300800", wantErr: ErrTimestampOverflow},
		{name: "before year 0", token: "-62167219201", wantErr: ErrTimestampOverflow},
		{name: "empty", token: "", wantErr: ErrNullField},
		{name: "null", token: "null", wantErr: ErrNullField},
		{name: "float", token: "1610000000.5", wantErr: ErrNullField},
		{name: "text", token: "N/A", wantErr: ErrNullField},
		{name: "quoted", token: `"1610000000"`, wantErr: ErrNullField},
		{name: "overflow", token: "9223372036854775808", wantErr: ErrTimestampOverflow},
		{name: "negative overflow", token: "-99999999999999999999", wantErr: ErrTimestampOverflow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEpochSeconds(tt.token)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, got.IsZero())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Unix())
			assert.Equal(t, time.UTC, got.Location())
		})
	}
}

func TestParseEpochSecondsRoundTrip(t *testing.T) {
	for _, n := range []int64{0, 1, 1610000000, 1700000123, -1, 253402300799, -62167219200} {
		got, err := ParseEpochSeconds(strconv.FormatInt(n, 10))
		require.NoError(t, err)
		assert.Equal(t, n, got.Unix())
	}
}

func TestNullFieldIsNotOverflow(t *testing.T) {
	_, nullErr := ParseEpochSeconds("")
	_, overflowErr := ParseEpochSeconds("99999999999999999999")

	assert.ErrorIs(t, nullErr, ErrNullField)
	assert.NotErrorIs(t, nullErr, ErrTimestampOverflow)
	assert.ErrorIs(t, overflowErr, ErrTimestampOverflow)
	assert.NotErrorIs(t, overflowErr, ErrNullField)
}

func TestParseEpochSecondsMarshalsAsJSON(t *testing.T) {
	for _, tok := range []string{"253402300799", "-62167219200", "1610000000"} {
		got, err := ParseEpochSeconds(tok)
		require.NoError(t, err)
		_, err = json.Marshal(got)
		assert.NoError(t, err, tok)
	}
}
