package loader

import (
	"math"
	"math/rand"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/apperrors"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
)

// SplitFeaturesTarget separates the target column from the rest of t.
// The features keep their column and row order; t is not modified.
func SplitFeaturesTarget(t *frame.Table, target string) (*frame.Table, *frame.Column, error) {
	y, err := t.Column(target)
	if err != nil {
		vErr := apperrors.Validation("split", "target column %q not found in table", target)
		vErr.Err = err
		return nil, nil, vErr
	}
	X, err := t.Drop(target)
	if err != nil {
		return nil, nil, err
	}
	return X, y, nil
}

// TrainTestSplit shuffles the rows of t with the given seed and puts
// floor(n*testRatio) of them in the test table.
func TrainTestSplit(t *frame.Table, testRatio float64, seed int64) (train, test *frame.Table, err error) {
	if testRatio < 0 || testRatio > 1 || math.IsNaN(testRatio) {
		return nil, nil, apperrors.Validation("train test split", "test ratio must be within [0, 1], got %v", testRatio)
	}
	n := t.NumRows()
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	nTest := int(float64(n) * testRatio)
	return t.Take(indices[nTest:]), t.Take(indices[:nTest]), nil
}

// Shuffle returns the rows of t in a seeded random order.
func Shuffle(t *frame.Table, seed int64) *frame.Table {
	return t.Take(rand.New(rand.NewSource(seed)).Perm(t.NumRows()))
}

// KFold yields k folds of row indices covering 0..n-1 exactly once.
func KFold(n, k int, seed int64) ([][]int, error) {
	if k < 1 || k > n {
		return nil, apperrors.Validation("kfold", "k must be within [1, %d], got %d", n, k)
	}
	indices := rand.New(rand.NewSource(seed)).Perm(n)
	folds := make([][]int, k)
	for i := range n {
		folds[i%k] = append(folds[i%k], indices[i])
	}
	return folds, nil
}
