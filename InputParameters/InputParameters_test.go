package InputParameters

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeshParameters(t *testing.T) {
	yamlInput := `
Title: "Test Reach"
ElementCountMethod: VARIABLE
RemainPercentage: 40
MinimumAngle: 30
MaximumAngle: 150
AreaFactor: 3
LongitudinalCount: 7
HeightAssignment: NEAR_ALL
`
	mp := Defaults()
	assert.NoError(t, mp.Parse([]byte(yamlInput)))
	assert.Equal(t, "Test Reach", mp.Title)
	assert.Equal(t, "VARIABLE", mp.ElementCountMethod)
	assert.Equal(t, 40.0, mp.RemainPercentage)
	assert.Equal(t, 7, mp.LongitudinalCount)
	// Defaults survive for keys the file omits
	assert.True(t, mp.CheckAngles)
	assert.NoError(t, mp.Validate())
}

func TestMeshParametersValidate(t *testing.T) {
	// NONE needs a positive distance
	{
		mp := Defaults()
		mp.ElementCountMethod = "NONE"
		assert.Error(t, mp.Validate())
		mp.Distance = 25
		assert.NoError(t, mp.Validate())
	}
	// Unknown method
	{
		mp := Defaults()
		mp.ElementCountMethod = "ADAPTIVE"
		assert.Error(t, mp.Validate())
	}
	// Angle window must be ordered
	{
		mp := Defaults()
		mp.MinimumAngle = 140
		assert.Error(t, mp.Validate())
	}
	// Area factor must exceed one
	{
		mp := Defaults()
		mp.AreaFactor = 1
		assert.Error(t, mp.Validate())
	}
}
