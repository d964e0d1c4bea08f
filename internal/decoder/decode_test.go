package decoder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opensky-state-decoder/internal/model"
)

const sampleReply = `{"time":1610000000,"states":[["abc123","UAL123  ","United States",1609999990,1609999995,13.001,55.7,1200.5,false,230.1,180.0,0.0,null,1150.3,"1200",false,0,3]]}`

func TestDecodeSampleReply(t *testing.T) {
	reply, err := Decode(sampleReply)
	require.NoError(t, err)
	require.NotNil(t, reply)

	require.NotNil(t, reply.CapturedAt)
	assert.Equal(t, int64(1610000000), reply.CapturedAt.Unix())
	require.Len(t, reply.Vehicles, 1)
	assert.Equal(t, "abc123", reply.Vehicles[0].ICAO24)
	assert.False(t, reply.Vehicles[0].OnGround)
	require.NotNil(t, reply.Vehicles[0].Category)
	assert.Equal(t, model.Category(3), *reply.Vehicles[0].Category)
	assert.Empty(t, reply.AllDiagnostics())
}

func TestDecodeEmptyStates(t *testing.T) {
	reply, err := Decode(`{"time":1610000000,"states":[]}`)
	require.NoError(t, err)
	assert.Len(t, reply.Vehicles, 0)
	assert.NotNil(t, reply.Vehicles)
	assert.Empty(t, reply.AllDiagnostics())
}

func TestDecodeNullStates(t *testing.T) {
	reply, err := Decode(`{"time":1610000000,"states":null}`)
	require.NoError(t, err)
	assert.Len(t, reply.Vehicles, 0)
	assert.Empty(t, reply.AllDiagnostics())
}

func TestDecodeMalformedEnvelope(t *testing.T) {
	for _, raw := range []string{
		`{"time":1610000000 "states":[]}`,
		`{"time":1610000000,"states":[],"more":1}`,
		`"time":1610000000,"states":[]`,
		``,
	} {
		reply, err := Decode(raw)
		assert.ErrorIs(t, err, ErrMalformedEnvelope, raw)
		assert.Nil(t, reply, raw)
	}
}

func TestDecodeMemberErrorsSkipOnlyThatMember(t *testing.T) {
	t.Run("malformed member", func(t *testing.T) {
		reply, err := Decode(`{"time" 1610000000,"states":[["a"]]}`)
		require.NoError(t, err)
		assert.Nil(t, reply.CapturedAt)
		require.Len(t, reply.Vehicles, 1)
		require.Len(t, reply.Diagnostics, 1)
		assert.Equal(t, model.KindMalformedMember, reply.Diagnostics[0].Kind)
		assert.Equal(t, -1, reply.Diagnostics[0].Record)
	})

	t.Run("malformed key", func(t *testing.T) {
		reply, err := Decode(`{"time":1610000000,states:[["a"]]}`)
		require.NoError(t, err)
		require.NotNil(t, reply.CapturedAt)
		assert.Empty(t, reply.Vehicles)
		require.Len(t, reply.Diagnostics, 1)
		assert.Equal(t, model.KindMalformedKey, reply.Diagnostics[0].Kind)
	})
}

func TestDecodeUnknownKey(t *testing.T) {
	reply, err := Decode(`{"now":1610000000,"states":[["a"],["b"]]}`)
	require.NoError(t, err)
	assert.Nil(t, reply.CapturedAt)
	assert.Len(t, reply.Vehicles, 2)
	require.Len(t, reply.Diagnostics, 1)
	assert.Equal(t, model.KindUnknownKey, reply.Diagnostics[0].Kind)
	assert.Equal(t, "now", reply.Diagnostics[0].Token)
}

func TestDecodeMalformedStatesList(t *testing.T) {
	reply, err := Decode(`{"time":1610000000,"states":{"a":1}}`)
	require.NoError(t, err)
	require.NotNil(t, reply.CapturedAt)
	assert.Empty(t, reply.Vehicles)
	require.Len(t, reply.Diagnostics, 1)
	assert.Equal(t, model.KindMalformedStatesList, reply.Diagnostics[0].Kind)
}

func TestDecodeEnvelopeTime(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantTime bool
		wantKind model.DiagnosticKind
	}{
		{name: "null time", raw: `{"time":null,"states":[]}`},
		{name: "empty time", raw: `{"time":,"states":[]}`},
		{name: "text time", raw: `{"time":"soon","states":[]}`},
		{name: "overflow", raw: `{"time":99999999999999999999,"states":[]}`, wantKind: model.KindTimestampOverflow},
		{name: "past year 9999", raw: `{"time":253402300800,"states":[]}`, wantKind: model.KindTimestampOverflow},
		{name: "states first", raw: `{"states":[],"time":1610000000}`, wantTime: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply, err := Decode(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTime, reply.CapturedAt != nil)
			if tt.wantKind == "" {
				assert.Empty(t, reply.Diagnostics)
				return
			}
			require.Len(t, reply.Diagnostics, 1)
			assert.Equal(t, tt.wantKind, reply.Diagnostics[0].Kind)
		})
	}
}

func TestDecodeAttachesRecordDiagnostics(t *testing.T) {
	raw := `{"time":1610000000,"states":[["ok"],["x","","",0,0,"N/A",0,0,false,0,0,0,null,0,"",false,0,0],["ok2"]]}`
	reply, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, reply.Vehicles, 3)

	assert.Empty(t, reply.Diagnostics)
	assert.Empty(t, reply.Vehicles[0].Diagnostics)
	require.Len(t, reply.Vehicles[1].Diagnostics, 1)
	assert.Equal(t, 1, reply.Vehicles[1].Diagnostics[0].Record)
	assert.Equal(t, model.FieldLongitude, reply.Vehicles[1].Diagnostics[0].Field)
	assert.Empty(t, reply.Vehicles[2].Diagnostics)

	all := reply.AllDiagnostics()
	require.Len(t, all, 1)
	assert.Equal(t, model.KindFieldParse, all[0].Kind)
}

func TestDecodeIsIdempotent(t *testing.T) {
	raw := `{"time":1610000000,"states":[["x","","",0,0,"N/A",0,0,false,0,0,0,[1,2],0],["y"]]}`
	first, err := Decode(raw)
	require.NoError(t, err)
	second, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
