// Package model trains tree ensembles on dense feature matrices and on
// frame tables, and scores their predictions.
package model

import (
	"math"
	"math/rand"
	"slices"
	"sort"
	"sync"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
)

// Criterion is the impurity measure minimised by a split.
type Criterion string

const (
	Gini    Criterion = "gini"
	Entropy Criterion = "entropy"
)

// ParseCriterion validates a criterion name.
func ParseCriterion(s string) (Criterion, error) {
	switch c := Criterion(s); c {
	case Gini, Entropy:
		return c, nil
	}
	return "", apperrors.Validation("model", "criterion must be 'gini' or 'entropy', got %q", s)
}

// Params are the growth limits of a tree.
type Params struct {
	MaxDepth            int // root is depth 0; 0 means unlimited
	MinSamplesSplit     int
	MinSamplesLeaf      int
	Criterion           Criterion
	MaxFeatures         int // features tried per node; 0 means all
	MinImpurityDecrease float64
}

// DefaultParams grow a tree until its leaves are pure.
func DefaultParams() Params {
	return Params{MinSamplesSplit: 2, MinSamplesLeaf: 1, Criterion: Gini}
}

// Option sets a tree parameter.
type Option func(*Params)

func WithMaxDepth(d int) Option        { return func(p *Params) { p.MaxDepth = d } }
func WithMinSamplesSplit(n int) Option { return func(p *Params) { p.MinSamplesSplit = n } }
func WithMinSamplesLeaf(n int) Option  { return func(p *Params) { p.MinSamplesLeaf = n } }
func WithCriterion(c Criterion) Option { return func(p *Params) { p.Criterion = c } }
func WithMaxFeatures(k int) Option     { return func(p *Params) { p.MaxFeatures = k } }
func WithMinImpurityDecrease(v float64) Option {
	return func(p *Params) { p.MinImpurityDecrease = v }
}

func (p Params) validate() error {
	switch {
	case p.MaxDepth < 0:
		return apperrors.Validation("model", "max depth must be non-negative, got %d", p.MaxDepth)
	case p.MinSamplesSplit < 2:
		return apperrors.Validation("model", "min samples split must be at least 2, got %d", p.MinSamplesSplit)
	case p.MinSamplesLeaf < 1:
		return apperrors.Validation("model", "min samples leaf must be at least 1, got %d", p.MinSamplesLeaf)
	case p.MaxFeatures < 0:
		return apperrors.Validation("model", "max features must be non-negative, got %d", p.MaxFeatures)
	}
	_, err := ParseCriterion(string(p.Criterion))
	return err
}

// DecisionTree is a CART classifier. Labels are class codes 0..k-1.
type DecisionTree struct {
	Params
	Seed int64 // drives feature sampling when MaxFeatures is set

	root      *node
	nClasses  int
	nFeatures int
}

type node struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *node
	right     *node
	probas    []float64
}

// NewDecisionTree returns a tree with DefaultParams and seed 42.
func NewDecisionTree(opts ...Option) *DecisionTree {
	t := &DecisionTree{Params: DefaultParams(), Seed: 42}
	for _, o := range opts {
		o(&t.Params)
	}
	return t
}

// Fit grows the tree on X (n rows of p features) and y. The number of
// classes is max(y)+1.
func (t *DecisionTree) Fit(X [][]float64, y []int) error {
	k, err := checkXY(X, y)
	if err != nil {
		return err
	}
	idx := make([]int, len(X))
	for i := range idx {
		idx[i] = i
	}
	return t.fit(X, y, idx, k)
}

// fit grows the tree on the rows listed in idx, which may repeat.
func (t *DecisionTree) fit(X [][]float64, y []int, idx []int, nClasses int) error {
	if err := t.Params.validate(); err != nil {
		return err
	}
	t.nClasses = nClasses
	t.nFeatures = len(X[0])
	rnd := rand.New(rand.NewSource(t.Seed))
	t.root = t.grow(X, y, idx, 0, rnd)
	return nil
}

// Fitted reports whether Fit has succeeded.
func (t *DecisionTree) Fitted() bool { return t.root != nil }

// PredictProba returns one class distribution per row of X.
func (t *DecisionTree) PredictProba(X [][]float64) ([][]float64, error) {
	if err := t.checkPredict(X); err != nil {
		return nil, err
	}
	out := make([][]float64, len(X))
	for i, x := range X {
		out[i] = t.leafFor(x).probas
	}
	return out, nil
}

// Predict returns the most likely class of each row of X.
func (t *DecisionTree) Predict(X [][]float64) ([]int, error) {
	probas, err := t.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probas))
	for i, p := range probas {
		out[i] = argmax(p)
	}
	return out, nil
}

func (t *DecisionTree) checkPredict(X [][]float64) error {
	if t.root == nil {
		return apperrors.Validation("model", "tree is not fitted")
	}
	for i, x := range X {
		if len(x) != t.nFeatures {
			return apperrors.Validation("model", "row %d has %d features, want %d", i, len(x), t.nFeatures)
		}
	}
	return nil
}

func (t *DecisionTree) leafFor(x []float64) *node {
	n := t.root
	for !n.leaf {
		if x[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n
}

type split struct {
	gain      float64
	feature   int
	threshold float64
	left      []int
	right     []int
}

func (t *DecisionTree) grow(X [][]float64, y []int, idx []int, depth int, rnd *rand.Rand) *node {
	counts := classCounts(y, idx, t.nClasses)
	leaf := &node{leaf: true, probas: probas(counts)}
	switch {
	case isPure(counts),
		len(idx) < t.MinSamplesSplit,
		len(idx) < 2*t.MinSamplesLeaf,
		t.MaxDepth > 0 && depth >= t.MaxDepth:
		return leaf
	}

	features := t.candidateFeatures(rnd)
	parent := t.impurity(counts)

	// One search per feature; results keep feature order so ties resolve
	// to the first feature.
	results := make([]split, len(features))
	var wg sync.WaitGroup
	for i, f := range features {
		wg.Add(1)
		go func(i, f int) {
			defer wg.Done()
			results[i] = t.bestSplit(X, y, idx, f, parent)
		}(i, f)
	}
	wg.Wait()

	best := split{feature: -1}
	for _, r := range results {
		if r.feature >= 0 && r.gain > best.gain {
			best = r
		}
	}
	if best.feature < 0 || best.gain <= t.MinImpurityDecrease {
		return leaf
	}
	return &node{
		feature:   best.feature,
		threshold: best.threshold,
		left:      t.grow(X, y, best.left, depth+1, rnd),
		right:     t.grow(X, y, best.right, depth+1, rnd),
	}
}

func (t *DecisionTree) candidateFeatures(rnd *rand.Rand) []int {
	features := make([]int, t.nFeatures)
	for i := range features {
		features[i] = i
	}
	if t.MaxFeatures == 0 || t.MaxFeatures >= t.nFeatures {
		return features
	}
	rnd.Shuffle(len(features), func(i, j int) { features[i], features[j] = features[j], features[i] })
	features = features[:t.MaxFeatures]
	slices.Sort(features)
	return features
}

// bestSplit scans the thresholds between consecutive distinct values of
// feature f, moving one row at a time from the right child to the left.
func (t *DecisionTree) bestSplit(X [][]float64, y []int, idx []int, f int, parent float64) split {
	order := slices.Clone(idx)
	sort.SliceStable(order, func(a, b int) bool { return X[order[a]][f] < X[order[b]][f] })

	n := len(order)
	left := make([]int, t.nClasses)
	right := classCounts(y, order, t.nClasses)
	best := split{feature: -1}
	pos := 0
	for s := 1; s < n; s++ {
		c := y[order[s-1]]
		left[c]++
		right[c]--

		lo, hi := X[order[s-1]][f], X[order[s]][f]
		if lo == hi || s < t.MinSamplesLeaf || n-s < t.MinSamplesLeaf {
			continue
		}
		weighted := (float64(s)*t.impurity(left) + float64(n-s)*t.impurity(right)) / float64(n)
		if gain := parent - weighted; gain > best.gain {
			thr := lo + (hi-lo)/2
			if thr >= hi {
				thr = lo
			}
			best = split{gain: gain, feature: f, threshold: thr}
			pos = s
		}
	}
	if best.feature >= 0 {
		best.left, best.right = order[:pos], order[pos:]
	}
	return best
}

func (t *DecisionTree) impurity(counts []int) float64 {
	if t.Criterion == Entropy {
		return entropy(counts)
	}
	return gini(counts)
}

func gini(counts []int) float64 {
	total := sum(counts)
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func entropy(counts []int) float64 {
	total := sum(counts)
	if total == 0 {
		return 0
	}
	var h float64
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}

func classCounts(y []int, idx []int, nClasses int) []int {
	counts := make([]int, nClasses)
	for _, i := range idx {
		counts[y[i]]++
	}
	return counts
}

func probas(counts []int) []float64 {
	total := sum(counts)
	p := make([]float64, len(counts))
	if total == 0 {
		return p
	}
	for i, c := range counts {
		p[i] = float64(c) / float64(total)
	}
	return p
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func sum(counts []int) int {
	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

// argmax returns the first index of the largest value.
func argmax(p []float64) int {
	best := 0
	for i := 1; i < len(p); i++ {
		if p[i] > p[best] {
			best = i
		}
	}
	return best
}

// checkXY validates a training set and returns the number of classes.
func checkXY(X [][]float64, y []int) (int, error) {
	if len(X) == 0 {
		return 0, apperrors.Validation("model", "no training rows")
	}
	if len(y) != len(X) {
		return 0, apperrors.Validation("model", "X has %d rows but y has %d", len(X), len(y))
	}
	p := len(X[0])
	if p == 0 {
		return 0, apperrors.Validation("model", "no features")
	}
	k := 0
	for i, x := range X {
		if len(x) != p {
			return 0, apperrors.Validation("model", "row %d has %d features, want %d", i, len(x), p)
		}
		for j, v := range x {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return 0, apperrors.Validation("model", "feature %d of row %d is %v", j, i, v)
			}
		}
		if y[i] < 0 {
			return 0, apperrors.Validation("model", "label of row %d is negative", i)
		}
		k = max(k, y[i]+1)
	}
	return k, nil
}
