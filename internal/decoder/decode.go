package decoder

import (
	"errors"
	"fmt"

	"opensky-state-decoder/internal/model"
)

// Member keys of a /states/all reply.
const (
	KeyTime   = "time"
	KeyStates = "states"
)

// Decode turns one raw reply into a Reply. Only a broken envelope is a hard
// error; member, list and field problems end up as diagnostics on the result.
func Decode(raw string) (*model.Reply, error) {
	first, second, err := SplitEnvelope(raw)
	if err != nil {
		return nil, err
	}

	reply := &model.Reply{Vehicles: make([]model.StateVector, 0)}
	for _, member := range []string{first, second} {
		key, value, err := ParseMember(member)
		if err != nil {
			reply.Diagnostics = append(reply.Diagnostics, diagnosticOf(err))
			continue
		}

		switch key {
		case KeyTime:
			t, err := ParseEpochSeconds(value)
			if err != nil {
				if !errors.Is(err, ErrNullField) {
					reply.Diagnostics = append(reply.Diagnostics, diagnosticOf(err))
				}
				continue
			}
			reply.CapturedAt = &t
		case KeyStates:
			vehicles, _, err := DecodeStates(value)
			if err != nil {
				reply.Diagnostics = append(reply.Diagnostics, diagnosticOf(err))
			}
			reply.Vehicles = vehicles
		default:
			e := newError(ErrUnknownKey, fmt.Sprintf("ignoring member %q", key))
			e.Token = key
			reply.Diagnostics = append(reply.Diagnostics, e.Diagnostic())
		}
	}
	return reply, nil
}

func diagnosticOf(err error) model.Diagnostic {
	var e *DecodeError
	if errors.As(err, &e) {
		return e.Diagnostic()
	}
	return model.Diagnostic{Record: -1, Field: -1, Message: err.Error()}
}
