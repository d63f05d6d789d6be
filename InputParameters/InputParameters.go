package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"
)

// Parameters obtained from the YAML input file
type MeshParameters struct {
	Title              string  `yaml:"Title"`
	ElementCountMethod string  `yaml:"ElementCountMethod"` // FIX, VARIABLE or NONE
	Distance           float64 `yaml:"Distance"`           // constant cross line spacing, NONE only
	RemainPercentage   float64 `yaml:"RemainPercentage"`
	CheckAngles        bool    `yaml:"CheckAngles"`
	CheckAreas         bool    `yaml:"CheckAreas"`
	MinimumAngle       float64 `yaml:"MinimumAngle"`
	MaximumAngle       float64 `yaml:"MaximumAngle"`
	AreaFactor         float64 `yaml:"AreaFactor"`
	LongitudinalCount  int     `yaml:"LongitudinalCount"`
	HeightAssignment   string  `yaml:"HeightAssignment"` // NEAR_INSIDE_WLB or NEAR_ALL
	ReducePointSet     bool    `yaml:"ReducePointSet"`
	BufferDistance     float64 `yaml:"BufferDistance"`
}

func Defaults() *MeshParameters {
	return &MeshParameters{
		ElementCountMethod: "FIX",
		RemainPercentage:   50,
		CheckAngles:        true,
		CheckAreas:         true,
		MinimumAngle:       45,
		MaximumAngle:       135,
		AreaFactor:         2,
		LongitudinalCount:  5,
		HeightAssignment:   "NEAR_INSIDE_WLB",
	}
}

func (mp *MeshParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, mp)
}

func (mp *MeshParameters) Validate() error {
	switch mp.ElementCountMethod {
	case "FIX", "VARIABLE":
	case "NONE":
		if mp.Distance <= 0 {
			return fmt.Errorf("ElementCountMethod NONE requires a positive Distance, got %g", mp.Distance)
		}
	default:
		return fmt.Errorf("unknown ElementCountMethod %q", mp.ElementCountMethod)
	}
	if mp.MinimumAngle >= mp.MaximumAngle {
		return fmt.Errorf("MinimumAngle %g must be below MaximumAngle %g", mp.MinimumAngle, mp.MaximumAngle)
	}
	if mp.AreaFactor <= 1 {
		return fmt.Errorf("AreaFactor must be above 1, got %g", mp.AreaFactor)
	}
	return nil
}

func (mp *MeshParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", mp.Title)
	fmt.Printf("[%s]\t\t\t= Element Count Method\n", mp.ElementCountMethod)
	fmt.Printf("%8.5f\t\t= Distance\n", mp.Distance)
	fmt.Printf("%8.5f\t\t= RemainPercentage\n", mp.RemainPercentage)
	fmt.Printf("[%t]\t\t\t= Check Angles\n", mp.CheckAngles)
	fmt.Printf("[%t]\t\t\t= Check Areas\n", mp.CheckAreas)
	fmt.Printf("%8.5f\t\t= MinimumAngle\n", mp.MinimumAngle)
	fmt.Printf("%8.5f\t\t= MaximumAngle\n", mp.MaximumAngle)
	fmt.Printf("%8.5f\t\t= AreaFactor\n", mp.AreaFactor)
	fmt.Printf("[%d]\t\t\t\t= Longitudinal Count\n", mp.LongitudinalCount)
	fmt.Printf("[%s]\t= Height Assignment\n", mp.HeightAssignment)
}
