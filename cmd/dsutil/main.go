// Command dsutil runs the data preparation utilities on CSV files.
//
// Example:
//
//	dsutil scaffold ./my-project
//	dsutil validate data/raw/train.csv --columns feature1,feature2,target
//	dsutil profile data/raw/train.csv
//	dsutil prepare data/raw/train.csv --outliers feature1 --standardize --out data/processed/train.csv
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
