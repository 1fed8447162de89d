package pfx

import (
	"fmt"
	"math"
)

// Infinity is the "unbounded" value of lifetimes and distances.
var Infinity = float32(math.Inf(1))

func isFinite(f float32) bool {
	return !math.IsInf(float64(f), 0) && !math.IsNaN(float64(f))
}

// IndoorVisibility narrows where a component is visible. The zero value is IndoorBoth.
type IndoorVisibility uint8

const (
	IndoorBoth IndoorVisibility = iota
	IndoorOnly
	OutdoorOnly
)

var indoorNames = [...]string{"Both", "IndoorOnly", "OutdoorOnly"}

func (v IndoorVisibility) String() string {
	if int(v) >= len(indoorNames) {
		return "IndoorVisibility(invalid)"
	}
	return indoorNames[v]
}

func parseIndoorVisibility(s string) (IndoorVisibility, error) {
	for i, name := range indoorNames {
		if name == s {
			return IndoorVisibility(i), nil
		}
	}
	return IndoorBoth, fmt.Errorf("unknown indoor visibility %q", s)
}

// WaterVisibility narrows visibility relative to the water plane. The zero value is WaterBoth.
type WaterVisibility uint8

const (
	WaterBoth WaterVisibility = iota
	AboveWaterOnly
	BelowWaterOnly
)

var waterNames = [...]string{"Both", "AboveWaterOnly", "BelowWaterOnly"}

func (v WaterVisibility) String() string {
	if int(v) >= len(waterNames) {
		return "WaterVisibility(invalid)"
	}
	return waterNames[v]
}

func parseWaterVisibility(s string) (WaterVisibility, error) {
	for i, name := range waterNames {
		if name == s {
			return WaterVisibility(i), nil
		}
	}
	return WaterBoth, fmt.Errorf("unknown water visibility %q", s)
}

type VisibilityParams struct {
	ViewDistanceMultiple float32 // scales the standard view distance
	MinCameraDistance    float32
	MaxCameraDistance    float32
	MaxScreenSize        float32 // fade out near camera above this screen fraction
	Indoor               IndoorVisibility
	Water                WaterVisibility
}

// DefaultVisibilityParams returns the unrestricted visibility.
func DefaultVisibilityParams() VisibilityParams {
	return VisibilityParams{
		ViewDistanceMultiple: 1,
		MaxCameraDistance:    Infinity,
		MaxScreenSize:        Infinity,
	}
}

// Combine folds o into v keeping the most restrictive values. An axis that is
// already narrowed stays narrowed.
func (v *VisibilityParams) Combine(o VisibilityParams) {
	v.ViewDistanceMultiple *= o.ViewDistanceMultiple
	v.MaxScreenSize = min(v.MaxScreenSize, o.MaxScreenSize)
	v.MinCameraDistance = max(v.MinCameraDistance, o.MinCameraDistance)
	v.MaxCameraDistance = min(v.MaxCameraDistance, o.MaxCameraDistance)
	if v.Indoor == IndoorBoth {
		v.Indoor = o.Indoor
	}
	if v.Water == WaterBoth {
		v.Water = o.Water
	}
}

func (v *VisibilityParams) Serialize(ar Archive) error {
	indoor, water := v.Indoor.String(), v.Water.String()
	if err := serializeValues(ar,
		field{"viewDistanceMultiple", &v.ViewDistanceMultiple},
		field{"minCameraDistance", &v.MinCameraDistance},
		field{"maxCameraDistance", &v.MaxCameraDistance},
		field{"maxScreenSize", &v.MaxScreenSize},
		field{"indoor", &indoor},
		field{"water", &water},
	); err != nil {
		return err
	}
	if !ar.IsInput() {
		return nil
	}
	var err error
	if v.Indoor, err = parseIndoorVisibility(indoor); err != nil {
		return err
	}
	v.Water, err = parseWaterVisibility(water)
	return err
}
