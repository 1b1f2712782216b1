package sail_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailwatch/sailwatch/internal/polar"
	"github.com/sailwatch/sailwatch/internal/sail"
)

func testAdvisor(t *testing.T) *sail.Advisor {
	t.Helper()

	model, err := polar.NewModel([]polar.SailConfig{
		{
			Label:     "all-purpose",
			WindRange: polar.WindRange{MinKts: 0, MaxKts: 40},
			Curves: []polar.Curve{
				{
					TWSKts: 10,
					Points: []polar.Point{
						{TWADeg: 60, SpeedKts: 7.0},
						{TWADeg: 90, SpeedKts: 8.0},
					},
				},
				{
					TWSKts: 20,
					Points: []polar.Point{
						{TWADeg: 60, SpeedKts: 8.0},
						{TWADeg: 90, SpeedKts: 9.5},
					},
				},
			},
		},
	})
	require.NoError(t, err)
	return sail.NewAdvisor(model)
}

func TestRecommend_Deterministic(t *testing.T) {
	advisor := testAdvisor(t)

	first, err := advisor.Recommend(12, 75, sail.ModeSpeed)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := advisor.Recommend(12, 75, sail.ModeSpeed)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestBandFor_Boundaries(t *testing.T) {
	tests := []struct {
		tws  float64
		want sail.Band
	}{
		{0, sail.BandVeryLight},
		{3.9, sail.BandVeryLight},
		{4, sail.BandLight},
		{8, sail.BandLight},
		{8.1, sail.BandModerate},
		{15.0, sail.BandModerate},
		{15.1, sail.BandStrong},
		{25, sail.BandStrong},
		{35, sail.BandHeavy},
		{35.1, sail.BandStorm},
		{45, sail.BandStorm},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, sail.BandFor(tt.tws), "tws=%v", tt.tws)
	}
}

func TestPointOfSailFor(t *testing.T) {
	assert.Equal(t, sail.PointUpwind, sail.PointOfSailFor(45))
	assert.Equal(t, sail.PointCloseReach, sail.PointOfSailFor(75))
	assert.Equal(t, sail.PointBeamReach, sail.PointOfSailFor(100))
	assert.Equal(t, sail.PointBroadReach, sail.PointOfSailFor(135))
	assert.Equal(t, sail.PointRunning, sail.PointOfSailFor(170))

	// Port-tack angles fold onto the same buckets.
	assert.Equal(t, sail.PointUpwind, sail.PointOfSailFor(315))
	assert.Equal(t, sail.PointRunning, sail.PointOfSailFor(190))
}

func TestRecommend_StormBand(t *testing.T) {
	advisor := testAdvisor(t)

	// 45 knots clamps to the 20kt curve; at 60 degrees the raw prediction is
	// 8.0 and the storm multiplier is 0.6.
	rec, err := advisor.Recommend(45, 60, sail.ModeSpeed)
	require.NoError(t, err)

	assert.True(t, rec.Plan.StormJib)
	assert.True(t, rec.Plan.Main)
	assert.False(t, rec.Plan.Jib)
	assert.False(t, rec.Plan.Spinnaker)
	assert.InDelta(t, 4.8, rec.ExpectedSpeedKts, 1e-9)

	// Storm plan regardless of angle or mode.
	rec, err = advisor.Recommend(45, 160, sail.ModeComfort)
	require.NoError(t, err)
	assert.True(t, rec.Plan.StormJib)
	assert.True(t, rec.Plan.Main)
}

func TestRecommend_Confidence(t *testing.T) {
	advisor := testAdvisor(t)

	rec, err := advisor.Recommend(4, 90, sail.ModeSpeed)
	require.NoError(t, err)
	assert.Equal(t, 65, rec.Confidence)

	rec, err = advisor.Recommend(4.1, 90, sail.ModeSpeed)
	require.NoError(t, err)
	assert.Equal(t, 85, rec.Confidence)
}

func TestRecommend_SpeedRounding(t *testing.T) {
	advisor := testAdvisor(t)

	// Moderate close reach in speed mode carries multiplier 1.1; the raw
	// polar prediction at (15, 75) is 8.125, so 8.9375 rounds to 8.9.
	rec, err := advisor.Recommend(15, 75, sail.ModeSpeed)
	require.NoError(t, err)
	assert.InDelta(t, 8.9, rec.ExpectedSpeedKts, 1e-9)
}

func TestRecommend_InvalidInput(t *testing.T) {
	advisor := testAdvisor(t)

	_, err := advisor.Recommend(-1, 90, sail.ModeSpeed)
	assert.ErrorIs(t, err, sail.ErrInvalidWindSpeed)

	_, err = advisor.Recommend(10, -5, sail.ModeSpeed)
	assert.ErrorIs(t, err, sail.ErrInvalidWindAngle)

	_, err = advisor.Recommend(10, 361, sail.ModeSpeed)
	assert.ErrorIs(t, err, sail.ErrInvalidWindAngle)

	_, err = advisor.Recommend(10, 90, sail.Mode("racing"))
	assert.ErrorIs(t, err, sail.ErrInvalidMode)
}

func TestRecommend_ModeChangesPlan(t *testing.T) {
	advisor := testAdvisor(t)

	fast, err := advisor.Recommend(12, 135, sail.ModeSpeed)
	require.NoError(t, err)
	comfy, err := advisor.Recommend(12, 135, sail.ModeComfort)
	require.NoError(t, err)

	assert.True(t, fast.Plan.Asymmetrical)
	assert.False(t, comfy.Plan.Asymmetrical)
	assert.True(t, comfy.Plan.Jib)
	assert.Greater(t, fast.ExpectedSpeedKts, comfy.ExpectedSpeedKts)
}
