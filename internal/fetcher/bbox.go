package fetcher

import (
	"fmt"
	"net/url"
	"strconv"
)

// BoundingBox limits a /states/all query to a WGS-84 area.
type BoundingBox struct {
	LaMin float64 `yaml:"lamin" json:"lamin"`
	LoMin float64 `yaml:"lomin" json:"lomin"`
	LaMax float64 `yaml:"lamax" json:"lamax"`
	LoMax float64 `yaml:"lomax" json:"lomax"`
}

// Presets are named areas usable from config and the command line.
var Presets = map[string]BoundingBox{
	"switzerland": {LaMin: 45.8389, LoMin: 5.9962, LaMax: 47.8229, LoMax: 10.5226},
	"new-jersey":  {LaMin: 39.065456, LoMin: -75.448057, LaMax: 41.386476, LoMax: -73.657286},
	"bjarred":     {LaMin: 54.0, LoMin: 12.0, LaMax: 56.0, LoMax: 14.0},
}

func (b BoundingBox) Validate() error {
	if b.LaMin < -90 || b.LaMax > 90 {
		return fmt.Errorf("latitude must be within [-90, 90]")
	}
	if b.LoMin < -180 || b.LoMax > 180 {
		return fmt.Errorf("longitude must be within [-180, 180]")
	}
	if b.LaMin >= b.LaMax {
		return fmt.Errorf("lamin %.6f must be below lamax %.6f", b.LaMin, b.LaMax)
	}
	if b.LoMin >= b.LoMax {
		return fmt.Errorf("lomin %.6f must be below lomax %.6f", b.LoMin, b.LoMax)
	}
	return nil
}

// Query encodes the box as OpenSky query parameters with six decimals.
func (b BoundingBox) Query() url.Values {
	format := func(f float64) string { return strconv.FormatFloat(f, 'f', 6, 64) }
	return url.Values{
		"lamin": {format(b.LaMin)},
		"lomin": {format(b.LoMin)},
		"lamax": {format(b.LaMax)},
		"lomax": {format(b.LoMax)},
	}
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%.4f,%.4f]x[%.4f,%.4f]", b.LaMin, b.LaMax, b.LoMin, b.LoMax)
}
