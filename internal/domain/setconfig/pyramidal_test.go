package setconfig_test

import (
	"fmt"
	"testing"

	"github.com/phrazzld/liftplan/internal/domain/setconfig"
	"github.com/phrazzld/liftplan/internal/idgen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pyramid(t *testing.T, start, end, step float64, mode setconfig.PyramidMode, rpe *setconfig.Range) setconfig.SetConfiguration {
	t.Helper()
	startR, endR, stepR := setconfig.Exactly(start), setconfig.Exactly(end), setconfig.Exactly(step)
	cfg, err := setconfig.Hydrate(setconfig.Data{
		Type:        setconfig.TypePyramidal,
		StartCounts: &startR,
		EndCounts:   &endR,
		Step:        &stepR,
		Mode:        mode,
		RPE:         rpe,
	})
	require.NoError(t, err)
	return cfg
}

func targets(cfg setconfig.SetConfiguration) []float64 {
	sets := cfg.GenerateEmptySets(idgen.Sequence("s"), "profile", setconfig.CounterReps)
	out := make([]float64, len(sets))
	for i, s := range sets {
		out[i] = s.PlannedCounts.Min
	}
	return out
}

func TestPyramidalWalks(t *testing.T) {
	tests := []struct {
		name    string
		start   float64
		end     float64
		step    float64
		mode    setconfig.PyramidMode
		want    []float64
		summary string
	}{
		{
			name:    "ascending",
			start:   8,
			end:     12,
			step:    2,
			mode:    setconfig.ModeAscending,
			want:    []float64{8, 10, 12},
			summary: "Pyramid from 8 to 12 reps",
		},
		{
			name:    "descending",
			start:   12,
			end:     8,
			step:    2,
			mode:    setconfig.ModeDescending,
			want:    []float64{12, 10, 8},
			summary: "Pyramid from 12 to 8 reps",
		},
		{
			name:    "both ways does not repeat the apex",
			start:   6,
			end:     10,
			step:    2,
			mode:    setconfig.ModeBothAscendingDescending,
			want:    []float64{6, 8, 10, 8, 6},
			summary: "Pyramid from 6 to 10 reps",
		},
		{
			name:    "step overshooting the end stops short",
			start:   5,
			end:     10,
			step:    3,
			mode:    setconfig.ModeAscending,
			want:    []float64{5, 8},
			summary: "Pyramid from 5 to 8 reps",
		},
		{
			name:    "single value",
			start:   10,
			end:     10,
			step:    2,
			mode:    setconfig.ModeBothAscendingDescending,
			want:    []float64{10},
			summary: "Pyramid from 10 to 10 reps",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := pyramid(t, tt.start, tt.end, tt.step, tt.mode, nil)

			assert.Equal(t, setconfig.TypePyramidal, cfg.Type())
			assert.Equal(t, tt.want, targets(cfg))
			assert.Equal(t, len(tt.want), cfg.TotalSets())
			assert.Equal(t, tt.summary, cfg.Summary())
		})
	}
}

func TestPyramidalFractionalStepReachesTheApex(t *testing.T) {
	for _, mode := range []setconfig.PyramidMode{setconfig.ModeAscending, setconfig.ModeDescending} {
		start, end := 6.0, 7.0
		if mode == setconfig.ModeDescending {
			start, end = end, start
		}
		got := targets(pyramid(t, start, end, 0.1, mode, nil))

		require.Len(t, got, 11, string(mode))
		assert.Equal(t, start, got[0])
		assert.Equal(t, end, got[10])
	}
}

func TestPyramidalDuration(t *testing.T) {
	cfg := pyramid(t, 8, 12, 2, setconfig.ModeAscending, nil)

	seconds := func(v float64) *float64 { return &v }

	assert.Equal(t, 105.0, cfg.EstimatedDurationSeconds(nil))
	assert.Equal(t, 105.0, cfg.EstimatedDurationSeconds(&setconfig.DurationParams{}))
	assert.Equal(t, 75.0, cfg.EstimatedDurationSeconds(&setconfig.DurationParams{TimePerRep: seconds(2)}))
	assert.Equal(t, 120.0, cfg.EstimatedDurationSeconds(&setconfig.DurationParams{BaseTimePerSet: seconds(10)}))
	assert.Equal(t, 90.0, cfg.EstimatedDurationSeconds(&setconfig.DurationParams{
		TimePerRep: seconds(2), BaseTimePerSet: seconds(10),
	}))
	assert.Equal(t, 90.0, cfg.EstimatedDurationSeconds(&setconfig.DurationParams{BaseTimePerSet: seconds(0)}),
		"a zero overhead is an override, not a fallback")
	assert.Equal(t, 15.0, cfg.EstimatedDurationSeconds(&setconfig.DurationParams{TimePerRep: seconds(0)}))
}

func TestPyramidalGenerateEmptySets(t *testing.T) {
	rpe := setconfig.Between(7, 9)
	cfg := pyramid(t, 8, 12, 2, setconfig.ModeAscending, &rpe)

	sets := cfg.GenerateEmptySets(idgen.Sequence("set"), "profile-1", setconfig.CounterReps)

	require.Len(t, sets, 3)
	for i, want := range []float64{8, 10, 12} {
		s := sets[i]
		assert.Equal(t, fmt.Sprintf("set-%d", i+1), s.ID)
		assert.Equal(t, "profile-1", s.ProfileID)
		assert.Equal(t, setconfig.CounterReps, s.CounterType)
		assert.False(t, s.Completed)
		assert.Zero(t, s.Counts)
		assert.Zero(t, s.Weight)
		assert.Equal(t, setconfig.Range{Min: want}, s.PlannedCounts)
		require.NotNil(t, s.PlannedRPE)
		assert.Equal(t, rpe, *s.PlannedRPE)
		assert.Equal(t, setconfig.KindPyramid, s.Kind)
	}

	// placeholders own their copy of the rpe range
	*sets[0].PlannedRPE.Max = 1
	assert.Equal(t, 9.0, *cfg.ToData().RPE.Max)
}

func TestPyramidalRPECurveIsFlat(t *testing.T) {
	rpe := setconfig.Between(7, 10)
	cfg := pyramid(t, 6, 10, 2, setconfig.ModeBothAscendingDescending, &rpe)

	assert.Equal(t, []float64{7, 7, 7, 7, 7}, cfg.EstimatedRPECurve())

	noRPE := pyramid(t, 6, 10, 2, setconfig.ModeBothAscendingDescending, nil)
	assert.Empty(t, noRPE.EstimatedRPECurve())
}

func TestPyramidalSetsAreDerived(t *testing.T) {
	cfg := pyramid(t, 6, 10, 2, setconfig.ModeBothAscendingDescending, nil)

	data := cfg.ToData()
	assert.Equal(t, setconfig.Range{Min: 5, Direction: setconfig.Ascending}, data.Sets)

	// a stale stored count is replaced by the derived one
	data.Sets = setconfig.Exactly(99)
	rehydrated, err := setconfig.Hydrate(data)
	require.NoError(t, err)
	assert.Equal(t, 5, rehydrated.TotalSets())
	assert.Equal(t, cfg, rehydrated)
}
