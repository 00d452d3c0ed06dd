package enrich

import (
	"context"

	"go.uber.org/zap"
)

// ORAConfig configures over-representation testing.
type ORAConfig struct {
	// Universe is the background population size: the count of all genes
	// considered in play, typically all genes in the organism annotation.
	Universe int
	// Workers bounds the pool testing gene sets in parallel (0 = NumCPU).
	Workers int
}

// ORATester computes one-sided hypergeometric enrichment of a fixed query
// gene subset against each gene set in a catalog.
type ORATester struct {
	cfg    ORAConfig
	logger *zap.Logger
}

// NewORATester creates a tester with the given configuration.
func NewORATester(cfg ORAConfig) *ORATester {
	return &ORATester{cfg: cfg, logger: zap.NewNop()}
}

// SetLogger sets the logger for progress and skip messages.
func (t *ORATester) SetLogger(l *zap.Logger) {
	t.logger = l
}

// Run tests every gene set in the catalog against the query subset and
// returns the corrected report. Malformed top-level input fails with a
// ValidationError before any testing starts; per-set failures become skipped
// entries. A cancelled context returns ctx.Err() and no partial report.
func (t *ORATester) Run(ctx context.Context, query []string, cat *Catalog) (*Report, error) {
	queryGenes := make(map[string]struct{}, len(query))
	for _, g := range query {
		if g != "" {
			queryGenes[g] = struct{}{}
		}
	}
	n := len(queryGenes)

	if n == 0 {
		return nil, &ValidationError{Field: "query", Msg: "query gene subset is empty"}
	}
	if t.cfg.Universe <= 0 {
		return nil, &ValidationError{Field: "universe", Msg: "background universe size must be positive"}
	}
	if t.cfg.Universe < n {
		return nil, &ValidationError{Field: "universe", Msg: "background universe is smaller than the query subset"}
	}

	outcomes, err := parallelSets(ctx, cat.Sets(), t.cfg.Workers, func(_ context.Context, s GeneSet) setOutcome {
		return t.evalSet(queryGenes, n, s)
	})
	if err != nil {
		return nil, err
	}

	report := &Report{Mode: ModeORA}
	var rawPs []float64
	for _, o := range outcomes {
		if o.skipped != nil {
			t.logger.Debug("skipping gene set",
				zap.String("set", o.skipped.SetID),
				zap.String("reason", string(o.skipped.Reason)))
			report.Skipped = append(report.Skipped, *o.skipped)
			continue
		}
		report.Results = append(report.Results, *o.result)
		rawPs = append(rawPs, o.result.RawP)
	}

	adjusted, err := AdjustBH(rawPs)
	if err != nil {
		return nil, err
	}
	for i := range report.Results {
		report.Results[i].AdjP = adjusted[i]
	}
	sortResults(report.Results)

	t.logger.Info("over-representation run complete",
		zap.Int("tested", len(report.Results)),
		zap.Int("skipped", len(report.Skipped)),
		zap.Int("query", n),
		zap.Int("universe", t.cfg.Universe))
	return report, nil
}

// evalSet computes the hypergeometric test for one gene set.
func (t *ORATester) evalSet(query map[string]struct{}, n int, s GeneSet) setOutcome {
	K := s.Size()
	N := t.cfg.Universe

	if N < K {
		return setOutcome{skipped: &SkippedSet{
			SetID:  s.ID,
			Reason: SkipInvalidUniverse,
			Err:    &ValidationError{Field: "universe", Msg: "background universe is smaller than the gene set"},
		}}
	}

	k := 0
	for g := range query {
		if s.Contains(g) {
			k++
		}
	}

	p, err := HyperTail(k, n, K, N)
	if err != nil {
		return setOutcome{skipped: &SkippedSet{SetID: s.ID, Reason: SkipComputation, Err: err}}
	}

	res := &EnrichmentResult{
		SetID:        s.ID,
		SetName:      s.Name,
		Mode:         ModeORA,
		Statistic:    float64(k),
		RawP:         p,
		Intersection: k,
		Query:        n,
		SetSize:      K,
		Universe:     N,
		Precision:    float64(k) / float64(n),
		Recall:       float64(k) / float64(K),
		Effect:       (float64(k) / float64(n)) / (float64(K) / float64(N)),
	}
	return setOutcome{result: res}
}
