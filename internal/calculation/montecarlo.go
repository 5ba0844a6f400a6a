package calculation

import (
	"context"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ktanaka/fireplan/internal/domain"
)

// Percentiles extracted from every Monte Carlo run.
var mcPercentiles = []int{10, 25, 50, 75, 90}

// Clamp bounds for the stochastic settings. Out-of-range values are pulled
// into range silently; defensive defaults, not errors.
const (
	minSimulations = 100
	maxSimulations = 10000

	maxReturnVolatilityPct    = 50
	maxInflationVolatilityPct = 10

	// Years after retirement that a trial must stay solvent for the run to
	// count as a success, horizon permitting.
	successHorizonYears = 10

	// Years after retirement stressed when sequence-of-returns risk is on.
	sequenceRiskYears = 5
)

// MonteCarloEngine characterizes outcome uncertainty by re-running a
// simplified single-aggregate-asset variant of the yearly loop under
// randomized annual returns and inflation. Trials are mutually independent
// and run across a worker pool; only the pre-sized results slice is shared,
// written at disjoint indexes.
type MonteCarloEngine struct {
	Fire    *FireCalculator
	Logger  Logger
	Workers int
}

// NewMonteCarloEngine creates an engine with one worker per CPU.
func NewMonteCarloEngine() *MonteCarloEngine {
	return &MonteCarloEngine{
		Fire:    NewFireCalculator(),
		Logger:  NopLogger{},
		Workers: runtime.NumCPU(),
	}
}

// trialParams is everything a single trial needs, derived once per run.
type trialParams struct {
	years          int
	currentAge     int
	lifeExpectancy int
	retirementAge  int

	initialAssets float64
	annualSavings float64
	baseExpenses  float64

	meanReturn    float64
	returnVol     float64
	meanInflation float64
	inflationVol  float64

	sequenceRisk bool
}

// Run executes the stochastic analysis and returns one band per percentile.
// The deterministic FIRE search runs first to fix the retirement age the
// trials pivot on.
func (mce *MonteCarloEngine) Run(ctx context.Context, input *domain.MonteCarloInput) ([]domain.PercentileBand, error) {
	fire, err := mce.Fire.Calculate(ctx, &input.FireCalculationInput)
	if err != nil {
		return nil, err
	}

	params := mce.deriveParams(input, fire)
	sims := clampInt(input.Simulations, minSimulations, maxSimulations)
	if sims != input.Simulations {
		mce.Logger.Debugf("simulations clamped from %d to %d", input.Simulations, sims)
	}
	mce.Logger.Debugf("running %d trials, retirement age %d", sims, params.retirementAge)

	seed := input.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	trials := make([][]domain.TrialYear, sims)

	workers := mce.Workers
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				select {
				case <-ctx.Done():
					continue // keep draining so the sender never blocks
				default:
				}
				// Per-trial source keeps a seeded run reproducible no matter
				// how trials land on workers.
				rng := rand.New(rand.NewSource(seed + int64(i)))
				trials[i] = runTrial(rng, params)
			}
		}()
	}

	for i := 0; i < sims; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	success := successProbability(trials, params)
	return aggregateBands(trials, params, success), nil
}

func (mce *MonteCarloEngine) deriveParams(input *domain.MonteCarloInput, fire *domain.FireCalculationResult) trialParams {
	// A fallback fireAge (no salary plans) still marks where withdrawal
	// years begin; only the unattainable sentinel defers to the search cap.
	retirementAge := maxSearchAge
	if fire.FireAge >= 0 {
		retirementAge = fire.FireAge
	}
	if retirementAge > input.LifeExpectancy {
		retirementAge = input.LifeExpectancy
	}
	if retirementAge < input.CurrentAge {
		retirementAge = input.CurrentAge
	}

	baseExpenses := input.AnnualExpensesAt(input.CurrentAge)

	income := decimal.Zero
	for i := range input.SalaryPlans {
		p := &input.SalaryPlans[i]
		if p.ActiveAt(input.CurrentAge) {
			income = income.Add(ResolveCurrency(p.AnnualAmount, p.Currency, input.ExchangeRate))
		}
	}
	for i := range input.PensionPlans {
		p := &input.PensionPlans[i]
		if p.ActiveAt(input.CurrentAge) {
			income = income.Add(ResolveCurrency(p.AnnualAmount, p.Currency, input.ExchangeRate))
		}
	}
	savings := income.Sub(baseExpenses)
	if savings.IsNegative() {
		savings = decimal.Zero
	}

	retVolPct := clampDecimal(input.ReturnVolatility, decimal.Zero, decimal.NewFromInt(maxReturnVolatilityPct))
	inflVolPct := clampDecimal(input.InflationVolatility, decimal.Zero, decimal.NewFromInt(maxInflationVolatilityPct))

	return trialParams{
		years:          input.ProjectionYears(),
		currentAge:     input.CurrentAge,
		lifeExpectancy: input.LifeExpectancy,
		retirementAge:  retirementAge,
		initialAssets:  InitialAssetValue(&input.FireCalculationInput).InexactFloat64(),
		annualSavings:  savings.InexactFloat64(),
		baseExpenses:   baseExpenses.InexactFloat64(),
		meanReturn:     weightedExpectedReturn(&input.FireCalculationInput).InexactFloat64(),
		returnVol:      fractionFromPercent(retVolPct).InexactFloat64(),
		meanInflation:  fractionFromPercent(input.InflationRate).InexactFloat64(),
		inflationVol:   fractionFromPercent(inflVolPct).InexactFloat64(),
		sequenceRisk:   input.SequenceOfReturnsRisk,
	}
}

// weightedExpectedReturn is the value-weighted mean of the holdings'
// expected returns, or the 5% default when the portfolio is empty.
func weightedExpectedReturn(input *domain.FireCalculationInput) decimal.Decimal {
	totalValue := decimal.Zero
	weighted := decimal.Zero
	for i := range input.AssetHoldings {
		h := &input.AssetHoldings[i]
		value := ResolveCurrency(h.RawValue(), h.Currency, input.ExchangeRate)
		totalValue = totalValue.Add(value)
		weighted = weighted.Add(value.Mul(fractionFromPercent(h.ExpectedReturnOrDefault())))
	}
	if !totalValue.IsPositive() {
		return fractionFromPercent(domain.DefaultExpectedReturnPercent)
	}
	return weighted.Div(totalValue)
}

// runTrial simulates one stochastic trajectory. The year loop ends early
// once assets reach zero; the depleted year is recorded, later years are not.
func runTrial(rng *rand.Rand, p trialParams) []domain.TrialYear {
	traj := make([]domain.TrialYear, 0, p.years)

	assets := p.initialAssets
	expenses := p.baseExpenses

	for year := 0; year < p.years; year++ {
		age := p.currentAge + year

		yearlyReturn := normalDraw(rng, p.meanReturn, p.returnVol)
		yearlyInflation := normalDraw(rng, p.meanInflation, p.inflationVol)

		if p.sequenceRisk && age > p.retirementAge && age <= p.retirementAge+sequenceRiskYears {
			yearlyReturn -= p.returnVol
		}

		expenses *= 1 + yearlyInflation

		if age < p.retirementAge {
			assets = assets*(1+yearlyReturn) + p.annualSavings
		} else {
			assets = assets*(1+yearlyReturn) - expenses
		}

		depleted := assets <= 0
		if depleted {
			assets = 0
		}

		remaining := p.lifeExpectancy - age
		if remaining < 1 {
			remaining = 1
		}
		requiredAssets := expenses * float64(remaining)

		traj = append(traj, domain.TrialYear{
			Year:                      year,
			Age:                       age,
			Assets:                    decimal.NewFromFloat(assets),
			InflationAdjustedExpenses: decimal.NewFromFloat(expenses),
			FireAchieved:              assets >= requiredAssets,
		})

		if depleted {
			break
		}
	}

	return traj
}

// normalDraw samples Normal(mean, sd) via the Box-Muller transform over two
// independent uniform draws.
func normalDraw(rng *rand.Rand, mean, sd float64) float64 {
	if sd == 0 {
		return mean
	}
	u1 := rng.Float64()
	for u1 == 0 {
		u1 = rng.Float64()
	}
	u2 := rng.Float64()
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + sd*z
}

// aggregateBands extracts the fixed percentile trajectories. For each year,
// independently, the asset values of all trials still recorded at that year
// are sorted and indexed at floor(p/100 * (n-1)); the row's other fields are
// borrowed from the first trial whose asset value lies within 10% of the
// percentile value. This nearest-match heuristic is intentional, not an
// interpolation.
func aggregateBands(trials [][]domain.TrialYear, p trialParams, success decimal.Decimal) []domain.PercentileBand {
	bands := make([]domain.PercentileBand, 0, len(mcPercentiles))
	for _, pct := range mcPercentiles {
		bands = append(bands, domain.PercentileBand{
			Percentile:         pct,
			Projections:        make([]domain.TrialYear, 0, p.years),
			SuccessProbability: success,
		})
	}

	type yearValue struct {
		value float64
		trial int
	}

	for year := 0; year < p.years; year++ {
		values := make([]yearValue, 0, len(trials))
		for t := range trials {
			if year < len(trials[t]) {
				values = append(values, yearValue{trials[t][year].Assets.InexactFloat64(), t})
			}
		}
		if len(values) == 0 {
			break
		}
		sort.Slice(values, func(a, b int) bool { return values[a].value < values[b].value })

		for bi, pct := range mcPercentiles {
			idx := int(math.Floor(float64(pct) / 100 * float64(len(values)-1)))
			target := values[idx]

			row := trials[target.trial][year]
			for t := range trials {
				if year >= len(trials[t]) {
					continue
				}
				v := trials[t][year].Assets.InexactFloat64()
				if withinTenPercent(v, target.value) {
					row = trials[t][year]
					break
				}
			}

			row.Assets = decimal.NewFromFloat(target.value)
			bands[bi].Projections = append(bands[bi].Projections, row)
		}
	}

	return bands
}

func withinTenPercent(v, target float64) bool {
	if target == 0 {
		return v == 0
	}
	return math.Abs(v-target) <= math.Abs(target)*0.1
}

// successProbability is the fraction of trials that both achieve FIRE in the
// retirement year and are still solvent ten years later, or at the trial's
// last recorded year when the horizon is shorter.
func successProbability(trials [][]domain.TrialYear, p trialParams) decimal.Decimal {
	if len(trials) == 0 {
		return decimal.Zero
	}

	horizonIdx := p.years - 1
	retireIdx := p.retirementAge - p.currentAge
	if retireIdx < 0 {
		retireIdx = 0
	}

	successes := 0
	for _, traj := range trials {
		if retireIdx >= len(traj) {
			continue // depleted before reaching retirement
		}
		if !traj[retireIdx].FireAchieved {
			continue
		}
		checkIdx := retireIdx + successHorizonYears
		if checkIdx > horizonIdx {
			checkIdx = horizonIdx
		}
		if checkIdx >= len(traj) {
			checkIdx = len(traj) - 1
		}
		if traj[checkIdx].Assets.IsPositive() {
			successes++
		}
	}

	return decimal.NewFromInt(int64(successes)).Div(decimal.NewFromInt(int64(len(trials))))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampDecimal(v, lo, hi decimal.Decimal) decimal.Decimal {
	if v.LessThan(lo) {
		return lo
	}
	if v.GreaterThan(hi) {
		return hi
	}
	return v
}
