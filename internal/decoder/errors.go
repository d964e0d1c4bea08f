package decoder

import (
	"errors"
	"fmt"

	"opensky-state-decoder/internal/model"
)

var (
	ErrMalformedEnvelope       = errors.New("malformed envelope")
	ErrMalformedMember         = errors.New("malformed member")
	ErrMalformedKey            = errors.New("malformed key")
	ErrUnknownKey              = errors.New("unknown key")
	ErrMalformedStatesList     = errors.New("malformed states list")
	ErrFieldParse              = errors.New("field parse error")
	ErrTimestampOverflow       = errors.New("timestamp overflow")
	ErrNullField               = errors.New("null field")
	ErrPartiallySupportedField = errors.New("partially supported field")
	ErrUnexpectedExtraField    = errors.New("unexpected extra field")
)

var kinds = map[error]model.DiagnosticKind{
	ErrMalformedEnvelope:       model.KindMalformedEnvelope,
	ErrMalformedMember:         model.KindMalformedMember,
	ErrMalformedKey:            model.KindMalformedKey,
	ErrUnknownKey:              model.KindUnknownKey,
	ErrMalformedStatesList:     model.KindMalformedStatesList,
	ErrFieldParse:              model.KindFieldParse,
	ErrTimestampOverflow:       model.KindTimestampOverflow,
	ErrNullField:               model.KindNullField,
	ErrPartiallySupportedField: model.KindPartiallySupportedField,
	ErrUnexpectedExtraField:    model.KindUnexpectedExtraField,
}

// DecodeError locates a decode problem. Kind is one of the package sentinels,
// so callers match with errors.Is(err, ErrFieldParse) and friends.
type DecodeError struct {
	Kind   error
	Record int
	Field  int
	Token  string
	Msg    string
	Err    error
}

func newError(kind error, msg string) *DecodeError {
	return &DecodeError{Kind: kind, Record: -1, Field: -1, Msg: msg}
}

func (e *DecodeError) Error() string {
	var loc string
	switch {
	case e.Record >= 0 && e.Field >= 0:
		loc = fmt.Sprintf("record %d field %d: ", e.Record, e.Field)
	case e.Record >= 0:
		loc = fmt.Sprintf("record %d: ", e.Record)
	}
	s := fmt.Sprintf("%s%v: %s", loc, e.Kind, e.Msg)
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *DecodeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// Diagnostic converts e into the value attached to decode results.
func (e *DecodeError) Diagnostic() model.Diagnostic {
	d := model.Diagnostic{
		Kind:    kinds[e.Kind],
		Record:  e.Record,
		Field:   e.Field,
		Token:   e.Token,
		Message: e.Msg,
	}
	if e.Field >= 0 {
		d.FieldName = model.FieldName(e.Field)
	}
	if e.Err != nil {
		d.Message += ": " + e.Err.Error()
	}
	return d
}
