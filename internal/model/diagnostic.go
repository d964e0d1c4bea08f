package model

import "fmt"

// DiagnosticKind classifies a non-fatal decode problem.
type DiagnosticKind string

const (
	KindMalformedEnvelope       DiagnosticKind = "malformed_envelope"
	KindMalformedMember         DiagnosticKind = "malformed_member"
	KindMalformedKey            DiagnosticKind = "malformed_key"
	KindUnknownKey              DiagnosticKind = "unknown_key"
	KindMalformedStatesList     DiagnosticKind = "malformed_states_list"
	KindFieldParse              DiagnosticKind = "field_parse_error"
	KindTimestampOverflow       DiagnosticKind = "timestamp_overflow"
	KindNullField               DiagnosticKind = "null_field"
	KindPartiallySupportedField DiagnosticKind = "partially_supported_field"
	KindUnexpectedExtraField    DiagnosticKind = "unexpected_extra_field"
)

// Diagnostic is a note attached to an otherwise successful decode.
// Record is -1 for envelope-level notes and Field is -1 when no slot applies.
type Diagnostic struct {
	Kind      DiagnosticKind `json:"kind"`
	Record    int            `json:"record"`
	Field     int            `json:"field"`
	FieldName string         `json:"field_name,omitempty"`
	Token     string         `json:"token,omitempty"`
	Message   string         `json:"message"`
}

func (d Diagnostic) String() string {
	switch {
	case d.Record < 0:
		return fmt.Sprintf("%s: %s", d.Kind, d.Message)
	case d.Field < 0:
		return fmt.Sprintf("record %d: %s: %s", d.Record, d.Kind, d.Message)
	default:
		return fmt.Sprintf("record %d field %d (%s): %s: %s", d.Record, d.Field, d.FieldName, d.Kind, d.Message)
	}
}
