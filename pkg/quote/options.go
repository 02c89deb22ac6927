package quote

import (
	"strings"

	"github.com/rotisserie/eris"
)

// RoofType selects the solar installation cost multiplier.
type RoofType string

// Roof types.
const (
	RoofAsphalt RoofType = "asphalt"
	RoofMetal   RoofType = "metal"
	RoofTile    RoofType = "tile"
	RoofFlat    RoofType = "flat"
)

// Shading describes how much of the array is shaded.
type Shading string

// Shading levels.
const (
	ShadingNone    Shading = "none"
	ShadingPartial Shading = "partial"
	ShadingHeavy   Shading = "heavy"
)

// SystemType is the kind of HVAC system being installed.
type SystemType string

// HVAC system types.
const (
	SystemCentralAir SystemType = "central-air"
	SystemHeatPump   SystemType = "heat-pump"
	SystemDuctless   SystemType = "ductless"
	SystemFurnace    SystemType = "furnace"
)

// Efficiency is the HVAC equipment efficiency tier.
type Efficiency string

// Efficiency tiers.
const (
	EfficiencyStandard Efficiency = "standard"
	EfficiencyHigh     Efficiency = "high"
	EfficiencyPremium  Efficiency = "premium"
)

// ProjectType is the kind of remodeling project.
type ProjectType string

// Remodeling project types.
const (
	ProjectKitchen  ProjectType = "kitchen"
	ProjectBathroom ProjectType = "bathroom"
	ProjectBasement ProjectType = "basement"
	ProjectAddition ProjectType = "addition"
)

// Quality is the remodeling finish level.
type Quality string

// Finish levels.
const (
	QualityBasic    Quality = "basic"
	QualityMidRange Quality = "mid-range"
	QualityLuxury   Quality = "luxury"
)

func normalize(value string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-")
}

// ParseRoofType validates a roof type name.
func ParseRoofType(value string) (RoofType, error) {
	switch r := RoofType(normalize(value)); r {
	case RoofAsphalt, RoofMetal, RoofTile, RoofFlat:
		return r, nil
	}
	return "", eris.Errorf("quote: unknown roof type %q", value)
}

// ParseShading validates a shading level.
func ParseShading(value string) (Shading, error) {
	switch s := Shading(normalize(value)); s {
	case ShadingNone, ShadingPartial, ShadingHeavy:
		return s, nil
	}
	return "", eris.Errorf("quote: unknown shading %q", value)
}

// ParseSystemType validates an HVAC system type.
func ParseSystemType(value string) (SystemType, error) {
	switch s := SystemType(normalize(value)); s {
	case SystemCentralAir, SystemHeatPump, SystemDuctless, SystemFurnace:
		return s, nil
	}
	return "", eris.Errorf("quote: unknown system type %q", value)
}

// ParseEfficiency validates an efficiency tier.
func ParseEfficiency(value string) (Efficiency, error) {
	switch e := Efficiency(normalize(value)); e {
	case EfficiencyStandard, EfficiencyHigh, EfficiencyPremium:
		return e, nil
	}
	return "", eris.Errorf("quote: unknown efficiency %q", value)
}

// ParseProjectType validates a remodeling project type.
func ParseProjectType(value string) (ProjectType, error) {
	switch p := ProjectType(normalize(value)); p {
	case ProjectKitchen, ProjectBathroom, ProjectBasement, ProjectAddition:
		return p, nil
	}
	return "", eris.Errorf("quote: unknown project type %q", value)
}

// ParseQuality validates a finish level.
func ParseQuality(value string) (Quality, error) {
	switch q := Quality(normalize(value)); q {
	case QualityBasic, QualityMidRange, QualityLuxury:
		return q, nil
	}
	return "", eris.Errorf("quote: unknown quality %q", value)
}
