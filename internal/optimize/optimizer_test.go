package optimize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tariff-engine/internal/model"
)

func testDataset(t *testing.T, series map[int][]float64) *model.Dataset {
	t.Helper()
	t0 := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	var recs []model.ConsumptionRecord
	for id, vals := range series {
		for i, v := range vals {
			recs = append(recs, model.ConsumptionRecord{
				HouseholdID:    id,
				Timestamp:      t0.Add(time.Duration(i) * time.Hour),
				ConsumptionKWh: v,
			})
		}
	}
	ds, err := model.BuildDataset(recs)
	require.NoError(t, err)
	return ds
}

// twoHouseholds has load profile [3, 5, 7, 9] and total consumption 24.
func twoHouseholds(t *testing.T) *model.Dataset {
	return testDataset(t, map[int][]float64{
		1: {1, 2, 3, 4},
		2: {2, 3, 4, 5},
	})
}

// failSolver fails the test if the optimizer reaches the backend at all.
type failSolver struct{ t *testing.T }

func (f failSolver) Solve(context.Context, Problem) (Solution, error) {
	f.t.Fatal("solver invoked although the run should have ended earlier")
	return Solution{}, nil
}

// blockedSolver never produces a solution; it waits out the context.
type blockedSolver struct{}

func (blockedSolver) Solve(ctx context.Context, _ Problem) (Solution, error) {
	<-ctx.Done()
	return Solution{}, ctx.Err()
}

// brokenSolver reports a backend failure.
type brokenSolver struct{ err error }

func (b brokenSolver) Solve(context.Context, Problem) (Solution, error) {
	return Solution{}, b.err
}

func TestParseMode(t *testing.T) {
	cases := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{in: "", want: ModeRegulated},
		{in: "regulated", want: ModeRegulated},
		{in: "market", want: ModeMarket},
		{in: "Market", wantErr: true},
		{in: "turbo", wantErr: true},
	}
	for _, tc := range cases {
		got, err := ParseMode(tc.in)
		if tc.wantErr {
			var perr *model.InvalidParameterError
			assert.ErrorAs(t, err, &perr, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestRunMaxFairnessFlattensCurve(t *testing.T) {
	ds := twoHouseholds(t)
	res, err := NewDefault().Run(context.Background(), ds, Constraints{
		FairnessWeight: 1.0,
		ProfitWeight:   0.0,
	})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	require.Len(t, res.PriceCurve, 4)

	for i := 1; i < len(res.PriceCurve); i++ {
		assert.InDelta(t, res.PriceCurve[0], res.PriceCurve[i], 1e-8)
	}
	assert.InDelta(t, 0, res.Fairness.GiniCoefficient, 1e-9)
	assert.InDelta(t, 0, res.Fairness.CoefficientOfVariation, 1e-9)
	// A perfectly flat curve scores the full fairness term.
	assert.InDelta(t, 1.0, res.ObjectiveValue, 1e-8)

	// Default regulated band: target = 24 * 0.275 = 6.6, ceiling 9.9.
	assert.GreaterOrEqual(t, res.Evaluation.TotalRevenue, 6.6-1e-9)
	assert.LessOrEqual(t, res.Evaluation.TotalRevenue, 9.9+1e-9)
}

func TestRunMaxProfitHitsBandCeiling(t *testing.T) {
	ds := twoHouseholds(t)
	res, err := NewDefault().Run(context.Background(), ds, Constraints{
		FairnessWeight:     0.0,
		ProfitWeight:       1.0,
		CostRecoveryTarget: 8,
		MinCostRecoveryPct: 100,
		MaxCostRecoveryPct: 140,
	})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)

	// The box allows up to 0.5 * 24 = 12, so revenue lands exactly on
	// the band ceiling 8 * 1.4 = 11.2.
	assert.InDelta(t, 11.2, res.Evaluation.TotalRevenue, 1e-6)
	assert.InDelta(t, 11.2/12.0, res.ObjectiveValue, 1e-6)
	assert.InDelta(t, 0, res.RevenueShortfall, 1e-9)
	assert.InDelta(t, 3.2, res.RevenueExcess, 1e-6)
}

func TestRunPricesStayInsideBox(t *testing.T) {
	ds := twoHouseholds(t)
	weights := [][2]float64{{1, 0}, {0, 1}, {0.5, 0.5}, {0.2, 0.8}, {0.6, 0.4}, {0, 0}}

	for _, w := range weights {
		res, err := NewDefault().Run(context.Background(), ds, Constraints{
			FairnessWeight: w[0],
			ProfitWeight:   w[1],
			MinPrice:       0.10,
			MaxPrice:       0.45,
		})
		require.NoError(t, err)
		require.NotEqual(t, StatusError, res.Status)
		require.True(t, res.Status.Succeeded())

		for i, p := range res.PriceCurve {
			assert.GreaterOrEqual(t, p, 0.10, "weights %v hour %d", w, i)
			assert.LessOrEqual(t, p, 0.45, "weights %v hour %d", w, i)
		}
		assert.GreaterOrEqual(t, res.ObjectiveValue, -1e-9)
		assert.LessOrEqual(t, res.ObjectiveValue, 1+1e-9)
	}
}

func TestRunInvalidParametersFailBeforeSolving(t *testing.T) {
	ds := twoHouseholds(t)
	opt := New(failSolver{t})

	cases := []struct {
		name string
		cons Constraints
	}{
		{"inverted recovery band", Constraints{FairnessWeight: 0.5, ProfitWeight: 0.5, MinCostRecoveryPct: 150, MaxCostRecoveryPct: 100}},
		{"weights exceed one", Constraints{FairnessWeight: 0.7, ProfitWeight: 0.7}},
		{"negative weight", Constraints{FairnessWeight: -0.1, ProfitWeight: 0.5}},
		{"weight above one", Constraints{FairnessWeight: 1.2, ProfitWeight: 0}},
		{"inverted price box", Constraints{FairnessWeight: 0.5, ProfitWeight: 0.5, MinPrice: 0.6, MaxPrice: 0.3}},
		{"negative target", Constraints{FairnessWeight: 0.5, ProfitWeight: 0.5, CostRecoveryTarget: -4}},
		{"unknown mode", Constraints{FairnessWeight: 0.5, ProfitWeight: 0.5, Mode: Mode("turbo")}},
		{"negative timeout", Constraints{FairnessWeight: 0.5, ProfitWeight: 0.5, SolverTimeout: -time.Second}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := opt.Run(context.Background(), ds, tc.cons)
			require.Error(t, err)
			assert.Nil(t, res)
			var perr *model.InvalidParameterError
			assert.ErrorAs(t, err, &perr)
		})
	}
}

func TestRunUnreachableRecoveryIsInfeasible(t *testing.T) {
	ds := twoHouseholds(t)
	// Even at the ceiling price the fleet earns 12, far below 100.
	res, err := New(failSolver{t}).Run(context.Background(), ds, Constraints{
		FairnessWeight:     0.5,
		ProfitWeight:       0.5,
		CostRecoveryTarget: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
	assert.False(t, res.Status.Succeeded())
	assert.Nil(t, res.PriceCurve)
	assert.NotEmpty(t, res.Diagnostic)
	assert.Equal(t, 0.5, res.FairnessWeightUsed)
	assert.Equal(t, 0.5, res.ProfitWeightUsed)
}

func TestRunRegulatedModeRaisesFloor(t *testing.T) {
	ds := testDataset(t, map[int][]float64{7: {1, 1, 1, 1}})

	cons := Constraints{
		FairnessWeight:     1.0,
		ProfitWeight:       0.0,
		CostRecoveryTarget: 3,
		MinCostRecoveryPct: 50,
		MaxCostRecoveryPct: 150,
	}

	// Market mode accepts half recovery: band [1.5, 4.5] intersects the
	// achievable [0.2, 2.0].
	cons.Mode = ModeMarket
	res, err := NewDefault().Run(context.Background(), ds, cons)
	require.NoError(t, err)
	assert.Equal(t, StatusOptimal, res.Status)
	assert.GreaterOrEqual(t, res.Evaluation.TotalRevenue, 1.5-1e-9)

	// Regulated mode lifts the floor to the full target 3, beyond the
	// achievable ceiling 2.
	cons.Mode = ModeRegulated
	res, err = NewDefault().Run(context.Background(), ds, cons)
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
}

func TestRunDeterministic(t *testing.T) {
	ds := twoHouseholds(t)
	cons := Constraints{FairnessWeight: 0.5, ProfitWeight: 0.5}

	first, err := NewDefault().Run(context.Background(), ds, cons)
	require.NoError(t, err)
	second, err := NewDefault().Run(context.Background(), ds, cons)
	require.NoError(t, err)

	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.PriceCurve, second.PriceCurve)
	assert.Equal(t, first.ObjectiveValue, second.ObjectiveValue)
}

func TestRunTimeoutFallsBackToIncumbent(t *testing.T) {
	ds := twoHouseholds(t)
	res, err := New(blockedSolver{}).Run(context.Background(), ds, Constraints{
		FairnessWeight:     0.5,
		ProfitWeight:       0.5,
		CostRecoveryTarget: 8,
		SolverTimeout:      20 * time.Millisecond,
	})
	require.NoError(t, err)
	require.Equal(t, StatusFeasible, res.Status)
	assert.True(t, res.Status.Succeeded())
	assert.Contains(t, res.Diagnostic, "budget")

	// Incumbent is the flat rate target/total = 8/24.
	require.Len(t, res.PriceCurve, 4)
	for _, p := range res.PriceCurve {
		assert.InDelta(t, 8.0/24.0, p, 1e-12)
	}
	assert.InDelta(t, 8, res.Evaluation.TotalRevenue, 1e-9)
	assert.Greater(t, res.RuntimeSeconds, 0.0)
}

func TestRunSolverFailureSurfacesAsError(t *testing.T) {
	ds := twoHouseholds(t)
	res, err := New(brokenSolver{err: errors.New("pivot blew up")}).Run(context.Background(), ds, Constraints{
		FairnessWeight: 0.5,
		ProfitWeight:   0.5,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusError, res.Status)
	assert.False(t, res.Status.Succeeded())
	assert.Nil(t, res.PriceCurve)
	assert.Contains(t, res.Diagnostic, "pivot blew up")
}

func TestRunZeroConsumptionFleet(t *testing.T) {
	ds := testDataset(t, map[int][]float64{1: {0, 0}, 2: {0, 0}})

	// No curve earns anything, so only a band whose floor is zero is
	// satisfiable, and only in market mode.
	res, err := NewDefault().Run(context.Background(), ds, Constraints{
		FairnessWeight:     1.0,
		ProfitWeight:       0.0,
		Mode:               ModeMarket,
		CostRecoveryTarget: 5,
		MinCostRecoveryPct: 0,
		MaxCostRecoveryPct: 150,
	})
	require.NoError(t, err)
	require.Equal(t, StatusOptimal, res.Status)
	require.Len(t, res.PriceCurve, 2)

	assert.InDelta(t, res.PriceCurve[0], res.PriceCurve[1], 1e-9)
	assert.InDelta(t, 0, res.Evaluation.TotalRevenue, 1e-12)
	assert.InDelta(t, 5, res.RevenueShortfall, 1e-12)
	assert.Zero(t, res.Fairness.GiniCoefficient)

	// With a regulated floor the same fleet is infeasible outright.
	res, err = New(failSolver{t}).Run(context.Background(), ds, Constraints{
		FairnessWeight:     1.0,
		ProfitWeight:       0.0,
		Mode:               ModeRegulated,
		CostRecoveryTarget: 5,
		MinCostRecoveryPct: 0,
		MaxCostRecoveryPct: 150,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusInfeasible, res.Status)
}

func TestRunDefaultTargetUsesMidpointRate(t *testing.T) {
	ds := twoHouseholds(t)
	res, err := NewDefault().Run(context.Background(), ds, Constraints{
		FairnessWeight: 0.5,
		ProfitWeight:   0.5,
	})
	require.NoError(t, err)
	require.True(t, res.Status.Succeeded())

	// (0.05 + 0.50) / 2 * 24 = 6.6.
	assert.InDelta(t, 6.6, res.Evaluation.CostRecoveryTarget, 1e-12)
	// Regulated default keeps revenue at or above the target.
	assert.GreaterOrEqual(t, res.Evaluation.TotalRevenue, 6.6-1e-9)
}
