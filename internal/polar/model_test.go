package polar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailwatch/sailwatch/internal/polar"
)

// testModel builds the two-curve grid from the reference scenario: curves at
// 10 and 20 knots with points at 60 and 90 degrees.
func testModel(t *testing.T) *polar.Model {
	t.Helper()

	model, err := polar.NewModel([]polar.SailConfig{
		{
			Label:     "main+jib",
			WindRange: polar.WindRange{MinKts: 0, MaxKts: 40},
			Curves: []polar.Curve{
				{
					TWSKts: 10,
					Points: []polar.Point{
						{TWADeg: 60, SpeedKts: 7.0, VMGKts: 3.5},
						{TWADeg: 90, SpeedKts: 8.0, VMGKts: 0},
					},
				},
				{
					TWSKts: 20,
					Points: []polar.Point{
						{TWADeg: 60, SpeedKts: 8.0, VMGKts: 4.0},
						{TWADeg: 90, SpeedKts: 9.5, VMGKts: 0},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return model
}

func TestSpeedAt_ExactGridPoint(t *testing.T) {
	model := testModel(t)

	tests := []struct {
		tws, twa, want float64
	}{
		{10, 60, 7.0},
		{10, 90, 8.0},
		{20, 60, 8.0},
		{20, 90, 9.5},
	}

	for _, tt := range tests {
		speed, err := model.SpeedAt(tt.tws, tt.twa, "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, speed, "tws=%v twa=%v", tt.tws, tt.twa)
	}
}

func TestSpeedAt_BilinearBlend(t *testing.T) {
	model := testModel(t)

	// Angle-interpolate each curve at 75 (10kt: 7.5, 20kt: 8.75), then
	// wind-speed-interpolate at the midpoint 15kt.
	speed, err := model.SpeedAt(15, 75, "")
	require.NoError(t, err)
	assert.InDelta(t, 8.125, speed, 1e-9)
}

func TestSpeedAt_ClampsOutsideGrid(t *testing.T) {
	model := testModel(t)

	// Below the minimum curve: equals the 10kt curve value.
	speed, err := model.SpeedAt(5, 75, "")
	require.NoError(t, err)
	assert.InDelta(t, 7.5, speed, 1e-9)

	// Above the maximum curve: equals the 20kt curve value.
	speed, err = model.SpeedAt(45, 75, "")
	require.NoError(t, err)
	assert.InDelta(t, 8.75, speed, 1e-9)

	// Angle outside the curve span clamps to the edge points.
	speed, err = model.SpeedAt(10, 30, "")
	require.NoError(t, err)
	assert.Equal(t, 7.0, speed)

	speed, err = model.SpeedAt(10, 170, "")
	require.NoError(t, err)
	assert.Equal(t, 8.0, speed)
}

func TestSpeedAt_SingleCurveSkipsWindInterpolation(t *testing.T) {
	model, err := polar.NewModel([]polar.SailConfig{
		{
			Label:     "only",
			WindRange: polar.WindRange{MinKts: 0, MaxKts: 30},
			Curves: []polar.Curve{
				{
					TWSKts: 12,
					Points: []polar.Point{
						{TWADeg: 60, SpeedKts: 6.0},
						{TWADeg: 120, SpeedKts: 7.0},
					},
				},
			},
		},
	})
	require.NoError(t, err)

	speed, err := model.SpeedAt(25, 90, "")
	require.NoError(t, err)
	assert.InDelta(t, 6.5, speed, 1e-9)
}

func TestSpeedAt_UnknownLabel(t *testing.T) {
	model := testModel(t)

	_, err := model.SpeedAt(10, 60, "spinnaker")
	assert.ErrorIs(t, err, polar.ErrConfigNotFound)
}

func TestSelectConfig_ByRangeAndMidpoint(t *testing.T) {
	model, err := polar.NewModel([]polar.SailConfig{
		{
			Label:     "light",
			WindRange: polar.WindRange{MinKts: 0, MaxKts: 10},
			Curves: []polar.Curve{
				{TWSKts: 8, Points: []polar.Point{{TWADeg: 90, SpeedKts: 5.0}}},
			},
		},
		{
			Label:     "heavy",
			WindRange: polar.WindRange{MinKts: 20, MaxKts: 40},
			Curves: []polar.Curve{
				{TWSKts: 30, Points: []polar.Point{{TWADeg: 90, SpeedKts: 7.0}}},
			},
		},
	})
	require.NoError(t, err)

	// Inside the light range.
	speed, err := model.SpeedAt(6, 90, "")
	require.NoError(t, err)
	assert.Equal(t, 5.0, speed)

	// In the gap between ranges the closest midpoint wins: 15 is nearer to
	// light's midpoint (5) than heavy's (30).
	speed, err = model.SpeedAt(15, 90, "")
	require.NoError(t, err)
	assert.Equal(t, 5.0, speed)

	speed, err = model.SpeedAt(19, 90, "")
	require.NoError(t, err)
	assert.Equal(t, 7.0, speed)
}

func TestOptimalVMG(t *testing.T) {
	model, err := polar.NewModel([]polar.SailConfig{
		{
			Label:     "main+jib",
			WindRange: polar.WindRange{MinKts: 0, MaxKts: 40},
			Curves: []polar.Curve{
				{
					TWSKts: 12,
					Points: []polar.Point{
						{TWADeg: 40, SpeedKts: 5.5, VMGKts: 4.2},
						{TWADeg: 52, SpeedKts: 6.4, VMGKts: 3.9},
						{TWADeg: 90, SpeedKts: 7.2, VMGKts: 0},
						{TWADeg: 140, SpeedKts: 6.8, VMGKts: -5.2},
						{TWADeg: 170, SpeedKts: 5.6, VMGKts: -5.5},
						{TWADeg: 180, SpeedKts: 5.2, VMGKts: -5.2},
					},
				},
			},
		},
	})
	require.NoError(t, err)

	targets, err := model.OptimalVMG(12, "")
	require.NoError(t, err)

	assert.Equal(t, 40.0, targets.Upwind.AngleDeg)
	assert.Equal(t, 4.2, targets.Upwind.VMGKts)
	assert.Equal(t, 170.0, targets.Downwind.AngleDeg)
	assert.Equal(t, -5.5, targets.Downwind.VMGKts)
}

func TestNewModel_Validation(t *testing.T) {
	_, err := polar.NewModel(nil)
	assert.ErrorIs(t, err, polar.ErrEmptyModel)

	_, err = polar.NewModel([]polar.SailConfig{{Label: "empty"}})
	assert.ErrorIs(t, err, polar.ErrEmptyCurve)
}

func TestDefaultModel(t *testing.T) {
	model := polar.DefaultModel()
	require.NotNil(t, model)
	assert.Equal(t, []string{"light", "standard", "reefed"}, model.Configs())

	speed, err := model.SpeedAt(12, 90, "")
	require.NoError(t, err)
	assert.Greater(t, speed, 0.0)
}
