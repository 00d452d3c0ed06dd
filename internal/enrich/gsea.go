package enrich

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

// Default permutation count and score-weight exponent.
const (
	DefaultPermutations = 1000
	DefaultWeight       = 1.0
)

// GSEAConfig configures rank-based enrichment scoring.
type GSEAConfig struct {
	// Permutations is the label-permutation count for the null distribution.
	Permutations int
	// Seed is the base seed; each permutation derives its own sub-seed from it.
	Seed uint64
	// Weight is the score-weight exponent for running-sum steps. 0 degenerates
	// to an unweighted Kolmogorov-Smirnov-style statistic.
	Weight float64
	// Workers bounds the permutation worker pool (0 = NumCPU).
	Workers int
}

// DefaultGSEAConfig returns the standard configuration (1000 permutations,
// weight 1).
func DefaultGSEAConfig() GSEAConfig {
	return GSEAConfig{Permutations: DefaultPermutations, Weight: DefaultWeight}
}

// GSEAScorer computes running-sum enrichment statistics for gene sets
// against a fully ranked gene list, with an empirical permutation null.
type GSEAScorer struct {
	cfg    GSEAConfig
	logger *zap.Logger
}

// NewGSEAScorer creates a scorer. A non-positive permutation count falls
// back to DefaultPermutations.
func NewGSEAScorer(cfg GSEAConfig) *GSEAScorer {
	if cfg.Permutations <= 0 {
		cfg.Permutations = DefaultPermutations
	}
	return &GSEAScorer{cfg: cfg, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress and skip messages.
func (s *GSEAScorer) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Run scores every gene set in the catalog against the ranked list and
// returns the corrected report. Gene sets with no overlap become skipped
// entries tagged with an EmptyOverlapError. A cancelled context returns
// ctx.Err() and no partial report; cancellation is checked between gene sets
// and between permutation batches.
func (s *GSEAScorer) Run(ctx context.Context, list *RankedGeneList, cat *Catalog) (*Report, error) {
	if list.Len() == 0 {
		return nil, &ValidationError{Field: "ranked list", Msg: "ranked gene list is empty"}
	}
	if s.cfg.Weight < 0 {
		return nil, &ValidationError{Field: "weight", Msg: "score-weight exponent must be non-negative"}
	}

	ranked := list.RankOrder()
	total := len(ranked)

	position := make(map[string]int, total)
	weights := make([]float64, total)
	for i, e := range ranked {
		position[e.Gene] = i
		weights[i] = math.Pow(math.Abs(e.Score), s.cfg.Weight)
	}

	report := &Report{Mode: ModeGSEA}
	var rawPs []float64

	for _, set := range cat.Sets() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		res, skipped, err := s.scoreSet(ctx, set, ranked, position, weights)
		if err != nil {
			return nil, err
		}
		if skipped != nil {
			s.logger.Debug("skipping gene set",
				zap.String("set", skipped.SetID),
				zap.String("reason", string(skipped.Reason)))
			report.Skipped = append(report.Skipped, *skipped)
			continue
		}
		report.Results = append(report.Results, *res)
		rawPs = append(rawPs, res.RawP)
	}

	adjusted, err := AdjustBH(rawPs)
	if err != nil {
		return nil, err
	}
	for i := range report.Results {
		report.Results[i].AdjP = adjusted[i]
	}
	sortResults(report.Results)

	s.logger.Info("rank enrichment run complete",
		zap.Int("tested", len(report.Results)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("permutations", s.cfg.Permutations))
	return report, nil
}

// scoreSet computes the observed statistic, permutation null, NES, and
// leading edge for one gene set. The returned error is terminal (cancellation
// only); per-set failures come back as a skipped entry.
func (s *GSEAScorer) scoreSet(ctx context.Context, set GeneSet, ranked []Entry, position map[string]int, weights []float64) (*EnrichmentResult, *SkippedSet, error) {
	var positions []int
	for g := range set.Genes {
		if p, ok := position[g]; ok {
			positions = append(positions, p)
		}
	}
	if len(positions) == 0 {
		return nil, &SkippedSet{
			SetID:  set.ID,
			Reason: SkipEmptyOverlap,
			Err:    &EmptyOverlapError{SetID: set.ID},
		}, nil
	}
	sort.Ints(positions)

	es, peak, err := runningScore(positions, weights, len(ranked))
	if err != nil {
		if ce, ok := err.(*ComputationError); ok {
			ce.SetID = set.ID
		}
		return nil, &SkippedSet{SetID: set.ID, Reason: SkipComputation, Err: err}, nil
	}

	m := len(positions)
	null, err := parallelPermutations(ctx, s.cfg.Permutations, s.cfg.Workers, func(i int) float64 {
		rng := permRNG(s.cfg.Seed, i)
		sampled := samplePositions(rng, len(ranked), m)
		score, _, err := runningScore(sampled, weights, len(ranked))
		if err != nil {
			return 0 // degenerate permutation contributes a null score of zero
		}
		return score
	})
	if err != nil {
		return nil, nil, err
	}

	// Positive and negative extrema form separate null tails; they are not
	// symmetric in small ranked lists.
	var posNull, negNull []float64
	for _, v := range null {
		if v >= 0 {
			posNull = append(posNull, v)
		} else {
			negNull = append(negNull, -v)
		}
	}
	same := posNull
	if es < 0 {
		same = negNull
	}

	nes, rawP := normalize(es, same, s.cfg.Permutations)

	res := &EnrichmentResult{
		SetID:        set.ID,
		SetName:      set.Name,
		Mode:         ModeGSEA,
		Statistic:    es,
		RawP:         rawP,
		ES:           es,
		NES:          nes,
		Effect:       nes,
		SetSize:      set.Size(),
		Intersection: m,
		Universe:     len(ranked),
		LeadingEdge:  leadingEdge(ranked, set, es, peak),
	}
	return res, nil, nil
}

// normalize divides the observed score by the mean absolute null score of
// the matching sign and computes the empirical p-value with a floor of
// 1/(permutations+1). An empty matching-sign null yields NES 0 and p 1.
func normalize(es float64, same []float64, permutations int) (nes, rawP float64) {
	if len(same) == 0 {
		return 0, 1
	}
	mean := stat.Mean(same, nil)
	if mean > 0 {
		nes = es / mean
	}

	abs := math.Abs(es)
	count := 0
	for _, v := range same {
		if v >= abs {
			count++
		}
	}
	rawP = float64(count) / float64(len(same))
	if floor := 1 / float64(permutations+1); rawP < floor {
		rawP = floor
	}
	return nes, rawP
}

// runningScore walks the ranking and returns the maximum absolute deviation
// of the running sum, signed by the direction of the extremum, together with
// the 0-based peak position. Hit steps are weighted by the rank position's
// weight; misses step down by 1/(total-members). positions must be sorted
// ascending and non-empty.
func runningScore(positions []int, weights []float64, total int) (float64, int, error) {
	sumHit := 0.0
	for _, p := range positions {
		sumHit += weights[p]
	}
	if sumHit <= 0 {
		return 0, 0, &ComputationError{Msg: "zero total hit weight"}
	}

	missStep := 0.0
	if total > len(positions) {
		missStep = 1 / float64(total-len(positions))
	}

	run, best := 0.0, 0.0
	peak := 0
	prev := 0
	for _, p := range positions {
		if gap := p - prev; gap > 0 {
			run -= float64(gap) * missStep
			if math.Abs(run) > math.Abs(best) {
				best, peak = run, p-1
			}
		}
		run += weights[p] / sumHit
		if math.Abs(run) > math.Abs(best) {
			best, peak = run, p
		}
		prev = p + 1
	}
	if prev < total {
		run -= float64(total-prev) * missStep
		if math.Abs(run) > math.Abs(best) {
			best, peak = run, total-1
		}
	}
	return best, peak, nil
}

// leadingEdge returns the gene-set members contributing to the running sum
// up to and including the peak: positions <= peak for a positive score,
// positions >= peak for a negative one. Genes come back in rank order.
func leadingEdge(ranked []Entry, set GeneSet, es float64, peak int) []string {
	if es == 0 {
		return nil
	}
	var genes []string
	if es > 0 {
		for i := 0; i <= peak && i < len(ranked); i++ {
			if set.Contains(ranked[i].Gene) {
				genes = append(genes, ranked[i].Gene)
			}
		}
	} else {
		for i := peak; i < len(ranked); i++ {
			if set.Contains(ranked[i].Gene) {
				genes = append(genes, ranked[i].Gene)
			}
		}
	}
	return genes
}
