package model

import (
	"math"
	"math/rand"
	"sync"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
)

// RandomForest is a bagged ensemble of decision trees. Predictions average
// the class distributions of the trees.
type RandomForest struct {
	NEstimators int
	Bootstrap   bool
	Seed        int64
	// Tree limits every tree. MaxFeatures 0 tries floor(sqrt(p)) features
	// per node.
	Tree Params

	Trees    []*DecisionTree
	nClasses int
}

// RandomForestOption configures a RandomForest.
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithSeed(seed int64) RandomForestOption   { return func(rf *RandomForest) { rf.Seed = seed } }

// WithTreeOptions sets the parameters shared by every tree.
func WithTreeOptions(opts ...Option) RandomForestOption {
	return func(rf *RandomForest) {
		for _, o := range opts {
			o(&rf.Tree)
		}
	}
}

// NewRandomForest returns 100 bootstrapped trees seeded with 42.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators: 100,
		Bootstrap:   true,
		Seed:        42,
		Tree:        DefaultParams(),
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// Fit trains every tree concurrently. Tree i draws its sample and its
// own seed from Seed+i, so the result does not depend on scheduling.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if rf.NEstimators < 1 {
		return apperrors.Validation("model", "n estimators must be at least 1, got %d", rf.NEstimators)
	}
	k, err := checkXY(X, y)
	if err != nil {
		return err
	}
	params := rf.Tree
	if params.MaxFeatures == 0 {
		params.MaxFeatures = max(1, int(math.Sqrt(float64(len(X[0])))))
	}
	if err := params.validate(); err != nil {
		return err
	}

	n := len(X)
	trees := make([]*DecisionTree, rf.NEstimators)
	errs := make([]error, rf.NEstimators)
	var wg sync.WaitGroup
	for i := range trees {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rnd := rand.New(rand.NewSource(rf.Seed + int64(i)))
			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = rnd.Intn(n)
				} else {
					sample[j] = j
				}
			}
			tree := &DecisionTree{Params: params, Seed: rnd.Int63()}
			if errs[i] = tree.fit(X, y, sample, k); errs[i] == nil {
				trees[i] = tree
			}
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	rf.Trees = trees
	rf.nClasses = k
	return nil
}

// NumClasses returns the number of classes seen by Fit.
func (rf *RandomForest) NumClasses() int { return rf.nClasses }

// PredictProba averages the class distributions of all trees.
func (rf *RandomForest) PredictProba(X [][]float64) ([][]float64, error) {
	if len(rf.Trees) == 0 {
		return nil, apperrors.Validation("model", "forest is not fitted")
	}
	perTree := make([][][]float64, len(rf.Trees))
	errs := make([]error, len(rf.Trees))
	var wg sync.WaitGroup
	for i, tree := range rf.Trees {
		wg.Add(1)
		go func(i int, t *DecisionTree) {
			defer wg.Done()
			perTree[i], errs[i] = t.PredictProba(X)
		}(i, tree)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	out := make([][]float64, len(X))
	for r := range out {
		avg := make([]float64, rf.nClasses)
		for _, p := range perTree {
			for c, v := range p[r] {
				avg[c] += v
			}
		}
		for c := range avg {
			avg[c] /= float64(len(perTree))
		}
		out[r] = avg
	}
	return out, nil
}

// Predict returns the class with the highest averaged probability, the
// lowest class code on ties.
func (rf *RandomForest) Predict(X [][]float64) ([]int, error) {
	probas, err := rf.PredictProba(X)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(probas))
	for i, p := range probas {
		out[i] = argmax(p)
	}
	return out, nil
}
