package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/alfiobonanno/Data-Science-Projects/pkg/data"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/dataprep"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/frame"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/loader"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/model"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/pipeline"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/report"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/scaffold"
	"github.com/alfiobonanno/Data-Science-Projects/pkg/stats"
)

func (a *app) scaffoldCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scaffold [root]",
		Short: "Create the standard project directory layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return scaffold.New(afero.NewOsFs(), a.logger).CreateProjectStructure(root)
		},
	}
}

func (a *app) validateCmd() *cobra.Command {
	var columns []string
	cmd := &cobra.Command{
		Use:   "validate <csv>",
		Short: "Load a CSV file and check that the expected columns exist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := data.LoadAndValidate(args[0], columns, a.loadOptions()...)
			if err != nil {
				return err
			}
			rows, cols := t.Shape()
			fmt.Fprintf(a.stdout, "%s: %d rows, %d columns\n", args[0], rows, cols)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "expected column names")
	return cmd
}

func (a *app) profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <csv>",
		Short: "Print shape, column kinds, null counts and memory usage as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(a.stdout)
			enc.SetIndent(2)
			if err := enc.Encode(dataprep.ProfileTable(t)); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func (a *app) outliersCmd() *cobra.Command {
	var (
		column string
		factor float64
		clip   bool
		out    string
	)
	cmd := &cobra.Command{
		Use:   "outliers <csv>",
		Short: "Drop (or clip) rows outside the IQR fences of a column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("factor") {
				factor = a.cfg.Outliers.Factor
			}
			t, err := a.load(args[0])
			if err != nil {
				return err
			}

			var res *frame.Table
			if clip {
				res, err = stats.ClipOutliersIQR(t, column, factor)
			} else {
				res, err = stats.RemoveOutliersIQR(t, column, factor)
			}
			if err != nil {
				return err
			}
			a.logger.Info("Outliers handled",
				zap.String("column", column),
				zap.Float64("factor", factor),
				zap.Bool("clip", clip),
				zap.Int("rows_before", t.NumRows()),
				zap.Int("rows_after", res.NumRows()))
			return a.write(out, res)
		},
	}
	cmd.Flags().StringVar(&column, "column", "", "numeric column to filter on")
	cmd.Flags().Float64Var(&factor, "factor", stats.DefaultIQRFactor, "IQR multiplier")
	cmd.Flags().BoolVar(&clip, "clip", false, "clamp values to the fences instead of dropping rows")
	cmd.Flags().StringVar(&out, "out", "", "output CSV (stdout when empty)")
	_ = cmd.MarkFlagRequired("column")
	return cmd
}

func (a *app) encodeCmd() *cobra.Command {
	var (
		columns []string
		method  string
		out     string
	)
	cmd := &cobra.Command{
		Use:   "encode <csv>",
		Short: "Encode categorical columns with one-hot or label encoding",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("method") {
				method = a.cfg.Encoding.Method
			}
			m, err := dataprep.ParseMethod(method)
			if err != nil {
				return err
			}
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			res, err := dataprep.EncodeCategorical(t, selection(columns), m)
			if err != nil {
				return err
			}
			return a.write(out, res)
		},
	}
	cmd.Flags().StringSliceVar(&columns, "columns", nil, "columns to encode (all text columns when empty)")
	cmd.Flags().StringVar(&method, "method", string(dataprep.MethodOneHot), "onehot or label")
	cmd.Flags().StringVar(&out, "out", "", "output CSV (stdout when empty)")
	return cmd
}

func (a *app) splitCmd() *cobra.Command {
	var (
		target    string
		outDir    string
		testRatio float64
		seed      int64
	)
	cmd := &cobra.Command{
		Use:   "split <csv>",
		Short: "Write X_train, X_test, y_train and y_test CSV files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("test-ratio") {
				testRatio = a.cfg.Split.TestRatio
			}
			if !cmd.Flags().Changed("seed") {
				seed = a.cfg.Split.Seed
			}
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			// Fail on a missing target before shuffling anything.
			if _, _, err := loader.SplitFeaturesTarget(t, target); err != nil {
				return err
			}
			train, test, err := loader.TrainTestSplit(t, testRatio, seed)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			parts := []struct {
				name  string
				table *frame.Table
			}{{"train", train}, {"test", test}}
			for _, part := range parts {
				X, y, err := loader.SplitFeaturesTarget(part.table, target)
				if err != nil {
					return err
				}
				if err := a.write(filepath.Join(outDir, "X_"+part.name+".csv"), X); err != nil {
					return err
				}
				if err := a.write(filepath.Join(outDir, "y_"+part.name+".csv"), frame.MustNew(y)); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "target column")
	cmd.Flags().StringVar(&outDir, "out-dir", ".", "directory for the split files")
	cmd.Flags().Float64Var(&testRatio, "test-ratio", 0.2, "fraction of rows in the test split")
	cmd.Flags().Int64Var(&seed, "seed", 42, "shuffle seed")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func (a *app) prepareCmd() *cobra.Command {
	var (
		drop          []string
		missingThresh float64
		dedupe        bool
		impute        string
		fill          string
		outliers      []string
		factor        float64
		encodeColumns []string
		method        string
		noEncode      bool
		standardize   bool
		out           string
	)
	cmd := &cobra.Command{
		Use:   "prepare <csv>",
		Short: "Clean, filter outliers, encode and scale in one pass",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("factor") {
				factor = a.cfg.Outliers.Factor
			}
			if !cmd.Flags().Changed("method") {
				method = a.cfg.Encoding.Method
			}

			p := pipeline.New(a.logger)
			if len(drop) > 0 {
				p.Add(pipeline.DropColumns(drop...))
			}
			if cmd.Flags().Changed("missing-thresh") {
				p.Add(pipeline.DropSparseColumns(missingThresh))
			}
			if dedupe {
				p.Add(pipeline.DropDuplicates())
			}
			if impute != "" {
				st, err := dataprep.ParseStrategy(impute)
				if err != nil {
					return err
				}
				p.Add(pipeline.Impute(st, fill))
			}
			for _, c := range outliers {
				p.Add(pipeline.RemoveOutliers(c, factor))
			}
			if !noEncode {
				m, err := dataprep.ParseMethod(method)
				if err != nil {
					return err
				}
				p.Add(pipeline.Encode(selection(encodeColumns), m))
			}
			if standardize {
				p.Add(pipeline.Standardize())
			}

			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			res, err := p.Run(t)
			if err != nil {
				return err
			}
			a.logger.Info("Pipeline finished",
				zap.Strings("steps", p.Steps()),
				zap.Int("rows", res.NumRows()),
				zap.Int("columns", res.NumCols()))
			return a.write(out, res)
		},
	}
	flags := cmd.Flags()
	flags.StringSliceVar(&drop, "drop", nil, "columns to drop first")
	flags.Float64Var(&missingThresh, "missing-thresh", 1, "drop columns with a larger fraction of nulls")
	flags.BoolVar(&dedupe, "dedupe", false, "drop duplicate rows")
	flags.StringVar(&impute, "impute", "", "fill nulls: mean, median, mode or constant")
	flags.StringVar(&fill, "fill", "", "value used by --impute constant")
	flags.StringSliceVar(&outliers, "outliers", nil, "numeric columns to remove IQR outliers from, in order")
	flags.Float64Var(&factor, "factor", stats.DefaultIQRFactor, "IQR multiplier")
	flags.StringSliceVar(&encodeColumns, "encode-columns", nil, "columns to encode (all text columns when empty)")
	flags.StringVar(&method, "method", string(dataprep.MethodOneHot), "onehot or label")
	flags.BoolVar(&noEncode, "no-encode", false, "skip categorical encoding")
	flags.BoolVar(&standardize, "standardize", false, "scale numeric columns to zero mean and unit variance")
	flags.StringVar(&out, "out", "", "output CSV (stdout when empty)")
	return cmd
}

func (a *app) plotCmd() *cobra.Command {
	var (
		target string
		dir    string
		bins   int
	)
	cmd := &cobra.Command{
		Use:   "plot <csv>",
		Short: "Draw numeric histograms and target value counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("dir") {
				dir = a.cfg.Report.FiguresDir
			}
			if !cmd.Flags().Changed("bins") {
				bins = a.cfg.Report.Bins
			}
			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			paths, err := report.DistributionPlots(t, target, dir, bins)
			if err != nil {
				return err
			}
			for _, p := range paths {
				fmt.Fprintln(a.stdout, p)
			}
			a.logger.Info("Figures saved", zap.String("dir", dir), zap.Int("count", len(paths)))
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "column to draw value counts for")
	cmd.Flags().StringVar(&dir, "dir", "reports/figures", "output directory")
	cmd.Flags().IntVar(&bins, "bins", 20, "histogram bins")
	return cmd
}

func (a *app) trainCmd() *cobra.Command {
	var (
		target          string
		testRatio       float64
		seed            int64
		nEstimators     int
		maxDepth        int
		minSamplesSplit int
		maxFeatures     int
		criterion       string
		figuresDir      string
		predictions     string
	)
	cmd := &cobra.Command{
		Use:   "train <csv>",
		Short: "Fit a random forest on a train split and report its test scores",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("test-ratio") {
				testRatio = a.cfg.Split.TestRatio
			}
			if !flags.Changed("seed") {
				seed = a.cfg.Model.Seed
			}
			if !flags.Changed("n-estimators") {
				nEstimators = a.cfg.Model.NEstimators
			}
			if !flags.Changed("max-depth") {
				maxDepth = a.cfg.Model.MaxDepth
			}
			if !flags.Changed("criterion") {
				criterion = a.cfg.Model.Criterion
			}
			crit, err := model.ParseCriterion(criterion)
			if err != nil {
				return err
			}

			t, err := a.load(args[0])
			if err != nil {
				return err
			}
			if _, _, err := loader.SplitFeaturesTarget(t, target); err != nil {
				return err
			}
			train, test, err := loader.TrainTestSplit(t, testRatio, seed)
			if err != nil {
				return err
			}
			xTrain, yTrain, err := loader.SplitFeaturesTarget(train, target)
			if err != nil {
				return err
			}
			xTest, yTest, err := loader.SplitFeaturesTarget(test, target)
			if err != nil {
				return err
			}

			clf := model.NewClassifier(
				model.WithNEstimators(nEstimators),
				model.WithSeed(seed),
				model.WithTreeOptions(
					model.WithMaxDepth(maxDepth),
					model.WithMinSamplesSplit(minSamplesSplit),
					model.WithMaxFeatures(maxFeatures),
					model.WithCriterion(crit),
				),
			)
			start := time.Now()
			if err := clf.Fit(xTrain, yTrain); err != nil {
				return err
			}
			a.logger.Info("Model trained",
				zap.Int("train_rows", xTrain.NumRows()),
				zap.Strings("features", clf.Features()),
				zap.Int("n_estimators", nEstimators),
				zap.Duration("elapsed", time.Since(start)))

			ev, err := clf.Evaluate(xTest, yTest)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Validation Accuracy: %.3f\n\nClassification Report:\n%s", ev.Accuracy, ev.Report)

			if figuresDir != "" {
				if err := os.MkdirAll(figuresDir, 0o755); err != nil {
					return err
				}
				path := filepath.Join(figuresDir, "confusion_matrix.png")
				if err := report.ConfusionMatrixPlot(ev.Labels, ev.Confusion, "RandomForest - Confusion Matrix", path); err != nil {
					return err
				}
				a.logger.Info("Figures saved", zap.String("path", path))
			}
			if predictions != "" {
				out := frame.MustNew(ev.Predicted.Rename("predictions"))
				if err := a.write(predictions, out); err != nil {
					return err
				}
			}
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&target, "target", "", "target column")
	flags.Float64Var(&testRatio, "test-ratio", 0.2, "fraction of rows held out for scoring")
	flags.Int64Var(&seed, "seed", 42, "split and forest seed")
	flags.IntVar(&nEstimators, "n-estimators", 100, "number of trees")
	flags.IntVar(&maxDepth, "max-depth", 0, "maximum tree depth (0 means unlimited)")
	flags.IntVar(&minSamplesSplit, "min-samples-split", 2, "rows a node needs before it may split")
	flags.IntVar(&maxFeatures, "max-features", 0, "features tried per split (0 means sqrt of the feature count)")
	flags.StringVar(&criterion, "criterion", string(model.Gini), "gini or entropy")
	flags.StringVar(&figuresDir, "figures-dir", "", "directory for the confusion matrix figure (none when empty)")
	flags.StringVar(&predictions, "predictions", "", "CSV file for the test predictions")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}

func selection(columns []string) dataprep.Selection {
	if len(columns) == 0 {
		return dataprep.AutoDetect{}
	}
	return dataprep.Specified(columns)
}
