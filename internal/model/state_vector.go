package model

import (
	"fmt"
	"time"
)

// NumFields is the number of positional slots in one state vector.
const NumFields = 18

// FieldNames lists the positional slots of a state vector in wire order.
var FieldNames = [NumFields]string{
	"icao24",
	"callsign",
	"origin_country",
	"time_position",
	"last_contact",
	"longitude",
	"latitude",
	"geo_altitude",
	"on_ground",
	"velocity",
	"true_track",
	"vertical_rate",
	"sensors",
	"baro_altitude",
	"squawk",
	"spi",
	"position_source",
	"category",
}

// Slot indexes into a state vector record.
const (
	FieldICAO24 = iota
	FieldCallsign
	FieldOriginCountry
	FieldTimePosition
	FieldLastContact
	FieldLongitude
	FieldLatitude
	FieldGeoAltitude
	FieldOnGround
	FieldVelocity
	FieldTrueTrack
	FieldVerticalRate
	FieldSensors
	FieldBaroAltitude
	FieldSquawk
	FieldSPI
	FieldPositionSource
	FieldCategory
)

// FieldName returns the slot name for index i, or "field_<i>" past the known slots.
func FieldName(i int) string {
	if i >= 0 && i < NumFields {
		return FieldNames[i]
	}
	return fmt.Sprintf("field_%d", i)
}

// Reply is one decoded /states/all response.
type Reply struct {
	CapturedAt  *time.Time    `json:"captured_at"`
	Vehicles    []StateVector `json:"vehicles"`
	Diagnostics []Diagnostic  `json:"diagnostics,omitempty"`
}

// AllDiagnostics returns the envelope diagnostics followed by every record's
// diagnostics in encounter order.
func (r *Reply) AllDiagnostics() []Diagnostic {
	if r == nil {
		return nil
	}
	out := make([]Diagnostic, 0, len(r.Diagnostics))
	out = append(out, r.Diagnostics...)
	for i := range r.Vehicles {
		out = append(out, r.Vehicles[i].Diagnostics...)
	}
	return out
}

// StateVector is one vehicle's reported state at the reply's capture time.
// Optional slots are nil when the feed reported them as null or empty.
type StateVector struct {
	ICAO24         string          `json:"icao24"`
	Callsign       *string         `json:"callsign"`
	OriginCountry  *string         `json:"origin_country"`
	TimePosition   *time.Time      `json:"time_position"`
	LastContact    *time.Time      `json:"last_contact"`
	Longitude      *float64        `json:"longitude"`
	Latitude       *float64        `json:"latitude"`
	GeoAltitude    *float64        `json:"geo_altitude"`
	OnGround       bool            `json:"on_ground"`
	Velocity       *float64        `json:"velocity"`
	TrueTrack      *float64        `json:"true_track"`
	VerticalRate   *float64        `json:"vertical_rate"`
	Sensors        Sensors         `json:"sensors"`
	BaroAltitude   *float64        `json:"baro_altitude"`
	Squawk         *string         `json:"squawk"`
	SPI            bool            `json:"spi"`
	PositionSource *PositionSource `json:"position_source"`
	Category       *Category       `json:"category"`

	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
}

// HasPosition reports whether both coordinates are present.
func (sv *StateVector) HasPosition() bool {
	return sv.Longitude != nil && sv.Latitude != nil
}

// SensorsKind tags how the sensors slot was represented on the wire.
type SensorsKind int

const (
	SensorsAbsent SensorsKind = iota
	SensorsOpaque
	SensorsParsed
)

func (k SensorsKind) String() string {
	switch k {
	case SensorsAbsent:
		return "absent"
	case SensorsOpaque:
		return "opaque"
	case SensorsParsed:
		return "parsed"
	default:
		return fmt.Sprintf("SensorsKind(%d)", int(k))
	}
}

// Sensors holds the serial numbers of the receivers that saw the vehicle.
// Raw is set for SensorsOpaque, IDs for SensorsParsed.
type Sensors struct {
	Kind SensorsKind `json:"kind"`
	Raw  string      `json:"raw,omitempty"`
	IDs  []int       `json:"ids,omitempty"`
}

// PositionSource is the origin of a state's position.
type PositionSource int

const (
	PositionADSB PositionSource = iota
	PositionASTERIX
	PositionMLAT
	PositionFLARM
)

func (p PositionSource) String() string {
	switch p {
	case PositionADSB:
		return "ADS-B"
	case PositionASTERIX:
		return "ASTERIX"
	case PositionMLAT:
		return "MLAT"
	case PositionFLARM:
		return "FLARM"
	default:
		return fmt.Sprintf("PositionSource(%d)", int(p))
	}
}

// Category is the ADS-B emitter category. Values above 20 are kept as-is.
type Category int

var categoryNames = [...]string{
	"No information",
	"No ADS-B emitter category information",
	"Light (< 15500 lbs)",
	"Small (15500 to 75000 lbs)",
	"Large (75000 to 300000 lbs)",
	"High vortex large",
	"Heavy (> 300000 lbs)",
	"High performance (> 5g acceleration and 400 kts)",
	"Rotorcraft",
	"Glider / sailplane",
	"Lighter-than-air",
	"Parachutist / skydiver",
	"Ultralight / hang-glider / paraglider",
	"Reserved",
	"Unmanned aerial vehicle",
	"Space / trans-atmospheric vehicle",
	"Surface vehicle - emergency vehicle",
	"Surface vehicle - service vehicle",
	"Point obstacle",
	"Cluster obstacle",
	"Line obstacle",
}

// Known reports whether c is one of the defined categories.
func (c Category) Known() bool {
	return c >= 0 && int(c) < len(categoryNames)
}

func (c Category) String() string {
	if c.Known() {
		return categoryNames[c]
	}
	return fmt.Sprintf("Category(%d)", int(c))
}
