package decoder

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"opensky-state-decoder/internal/model"
)

var (
	errNotFinite  = errors.New("value is not finite")
	errNotBoolean = errors.New("expected true or false")
)

// DecodeStates decodes the value of the "states" member. It returns every
// bracketed record in encounter order together with all per-record
// diagnostics; the same diagnostics are attached to each record.
//
// Records are located by taking the next '[' and the first ']' after it.
// This holds only because state vectors carry no nested brackets; the one
// exception is a populated sensors list, which closes the record early and is
// reported as ErrPartiallySupportedField.
func DecodeStates(text string) ([]model.StateVector, []model.Diagnostic, error) {
	s := strings.TrimSpace(text)
	vehicles := make([]model.StateVector, 0)
	if s == "null" {
		return vehicles, nil, nil
	}
	if len(s) < 2 || s[0] != '[' || s[len(s)-1] != ']' {
		e := newError(ErrMalformedStatesList, "states value is not wrapped in []")
		e.Token = abbreviate(s)
		return vehicles, nil, e
	}

	var diags []model.Diagnostic
	pos := 1
	for pos < len(s) {
		open := strings.IndexByte(s[pos:], '[')
		if open < 0 {
			break
		}
		open += pos
		end := strings.IndexByte(s[open+1:], ']')
		if end < 0 {
			break
		}
		end += open + 1

		sv := decodeRecord(len(vehicles), s[open+1:end])
		diags = append(diags, sv.Diagnostics...)
		vehicles = append(vehicles, sv)
		pos = end + 1
	}
	return vehicles, diags, nil
}

func decodeRecord(record int, interior string) model.StateVector {
	var sv model.StateVector
	for i, tok := range splitTokens(interior) {
		var e *DecodeError
		if i < model.NumFields {
			e = slotDecoders[i](&sv, tok)
		} else {
			e = &DecodeError{
				Kind: ErrUnexpectedExtraField,
				Msg:  fmt.Sprintf("record carries more than %d slots", model.NumFields),
			}
		}
		if e == nil {
			continue
		}
		e.Record, e.Field, e.Token = record, i, abbreviate(tok)
		if e.Msg == "" {
			e.Msg = fmt.Sprintf("cannot decode %s from %q", model.FieldName(i), e.Token)
		}
		sv.Diagnostics = append(sv.Diagnostics, e.Diagnostic())
	}
	return sv
}

// splitTokens splits a record interior on commas outside quotes. A token that
// opens a nested '[' runs to the end of the interior.
func splitTokens(s string) []string {
	var (
		toks    []string
		start   int
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
		case '[':
			if strings.TrimSpace(s[start:i]) == "" {
				return append(toks, strings.TrimSpace(s[start:]))
			}
		case ',':
			toks = append(toks, strings.TrimSpace(s[start:i]))
			start = i + 1
		}
	}
	return append(toks, strings.TrimSpace(s[start:]))
}

type slotDecoder func(sv *model.StateVector, tok string) *DecodeError

var slotDecoders = [model.NumFields]slotDecoder{
	model.FieldICAO24: func(sv *model.StateVector, tok string) *DecodeError {
		if s := parseString(tok); s != nil {
			sv.ICAO24 = *s
		}
		return nil
	},
	model.FieldCallsign:      stringSlot(func(sv *model.StateVector) **string { return &sv.Callsign }),
	model.FieldOriginCountry: stringSlot(func(sv *model.StateVector) **string { return &sv.OriginCountry }),
	model.FieldTimePosition:  timeSlot(func(sv *model.StateVector) **time.Time { return &sv.TimePosition }),
	model.FieldLastContact:   timeSlot(func(sv *model.StateVector) **time.Time { return &sv.LastContact }),
	model.FieldLongitude:     floatSlot(func(sv *model.StateVector) **float64 { return &sv.Longitude }),
	model.FieldLatitude:      floatSlot(func(sv *model.StateVector) **float64 { return &sv.Latitude }),
	model.FieldGeoAltitude:   floatSlot(func(sv *model.StateVector) **float64 { return &sv.GeoAltitude }),
	model.FieldOnGround:      boolSlot(func(sv *model.StateVector) *bool { return &sv.OnGround }),
	model.FieldVelocity:      floatSlot(func(sv *model.StateVector) **float64 { return &sv.Velocity }),
	model.FieldTrueTrack:     floatSlot(func(sv *model.StateVector) **float64 { return &sv.TrueTrack }),
	model.FieldVerticalRate:  floatSlot(func(sv *model.StateVector) **float64 { return &sv.VerticalRate }),
	model.FieldSensors: func(sv *model.StateVector, tok string) *DecodeError {
		var e *DecodeError
		sv.Sensors, e = parseSensors(tok)
		return e
	},
	model.FieldBaroAltitude: floatSlot(func(sv *model.StateVector) **float64 { return &sv.BaroAltitude }),
	model.FieldSquawk:       stringSlot(func(sv *model.StateVector) **string { return &sv.Squawk }),
	model.FieldSPI:          boolSlot(func(sv *model.StateVector) *bool { return &sv.SPI }),
	model.FieldPositionSource: func(sv *model.StateVector, tok string) *DecodeError {
		n, e := parseInt(tok)
		if n != nil {
			ps := model.PositionSource(*n)
			sv.PositionSource = &ps
		}
		return e
	},
	model.FieldCategory: func(sv *model.StateVector, tok string) *DecodeError {
		n, e := parseInt(tok)
		if n != nil {
			c := model.Category(*n)
			sv.Category = &c
		}
		return e
	},
}

func stringSlot(field func(*model.StateVector) **string) slotDecoder {
	return func(sv *model.StateVector, tok string) *DecodeError {
		*field(sv) = parseString(tok)
		return nil
	}
}

func floatSlot(field func(*model.StateVector) **float64) slotDecoder {
	return func(sv *model.StateVector, tok string) *DecodeError {
		f, e := parseFloat(tok)
		*field(sv) = f
		return e
	}
}

func timeSlot(field func(*model.StateVector) **time.Time) slotDecoder {
	return func(sv *model.StateVector, tok string) *DecodeError {
		t, e := parseTime(tok)
		*field(sv) = t
		return e
	}
}

func boolSlot(field func(*model.StateVector) *bool) slotDecoder {
	return func(sv *model.StateVector, tok string) *DecodeError {
		b, e := parseBool(tok)
		*field(sv) = b
		return e
	}
}

func isNull(tok string) bool {
	return tok == "" || tok == "null"
}

// unquote strips surrounding double quotes and resolves \" and \\ escapes.
// Other backslash sequences are kept as they appear on the wire.
func unquote(tok string) string {
	if len(tok) < 2 || tok[0] != '"' || tok[len(tok)-1] != '"' {
		return tok
	}
	s := tok[1 : len(tok)-1]
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && (s[i+1] == '"' || s[i+1] == '\\') {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func parseString(tok string) *string {
	if isNull(tok) {
		return nil
	}
	s := unquote(tok)
	if s == "" {
		return nil
	}
	return &s
}

func parseFloat(tok string) (*float64, *DecodeError) {
	if isNull(tok) {
		return nil, nil
	}
	f, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return nil, &DecodeError{Kind: ErrFieldParse, Err: err}
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, &DecodeError{Kind: ErrFieldParse, Err: errNotFinite}
	}
	return &f, nil
}

func parseInt(tok string) (*int, *DecodeError) {
	if isNull(tok) {
		return nil, nil
	}
	n, err := strconv.Atoi(tok)
	if err != nil {
		return nil, &DecodeError{Kind: ErrFieldParse, Err: err}
	}
	return &n, nil
}

func parseBool(tok string) (bool, *DecodeError) {
	switch {
	case isNull(tok):
		return false, nil
	case strings.EqualFold(tok, "true"):
		return true, nil
	case strings.EqualFold(tok, "false"):
		return false, nil
	}
	return false, &DecodeError{Kind: ErrFieldParse, Err: errNotBoolean}
}

func parseTime(tok string) (*time.Time, *DecodeError) {
	if isNull(tok) {
		return nil, nil
	}
	t, err := ParseEpochSeconds(tok)
	if err != nil {
		var e *DecodeError
		if errors.As(err, &e) && errors.Is(e.Kind, ErrTimestampOverflow) {
			return nil, e
		}
		return nil, nil
	}
	return &t, nil
}

// parseSensors keeps the sensors slot visible even when it cannot be fully
// decoded. A bracketed token is the nested list that ended the record scan,
// so slots after it are lost for this record.
func parseSensors(tok string) (model.Sensors, *DecodeError) {
	if isNull(tok) {
		return model.Sensors{Kind: model.SensorsAbsent}, nil
	}
	if tok[0] != '[' {
		return model.Sensors{Kind: model.SensorsOpaque, Raw: tok},
			&DecodeError{Kind: ErrPartiallySupportedField, Msg: "sensors is not a bracketed list"}
	}

	partial := &DecodeError{
		Kind: ErrPartiallySupportedField,
		Msg:  "sensors list ends the record scan, later slots are unavailable",
	}
	raw := tok + "]"
	inner := strings.TrimSpace(tok[1:])
	ids := make([]int, 0)
	if inner != "" {
		for _, part := range strings.Split(inner, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return model.Sensors{Kind: model.SensorsOpaque, Raw: raw}, partial
			}
			ids = append(ids, n)
		}
	}
	return model.Sensors{Kind: model.SensorsParsed, Raw: raw, IDs: ids}, partial
}
