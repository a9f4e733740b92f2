// Package framekit provides scikit-learn style transformers for categorical
// feature engineering on in-memory tables.
//
// Every transformer follows the same two-phase contract: Fit discovers the
// output columns from training data, Transform rewrites new data into exactly
// those columns. Output columns are always numeric, and gaps are filled with 0.
//
// # Installation
//
//	go get github.com/YuminosukeSato/framekit
//
// # Quick Start
//
//	package main
//
//	import (
//	    "fmt"
//	    "log"
//
//	    "github.com/YuminosukeSato/framekit/core/frame"
//	    "github.com/YuminosukeSato/framekit/preprocessing"
//	)
//
//	func main() {
//	    df, err := frame.New(
//	        frame.NewCategorical("home", []string{"Reds", "Blues"}),
//	        frame.NewCategorical("away", []string{"Blues", "Greens"}),
//	    )
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    ohe := preprocessing.NewCombinationOHE("home", "away")
//	    out, err := ohe.FitTransform(df)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(out.Names()) // [Blues Greens Reds]
//	}
//
// # Packages
//
//   - core/frame: the Frame table, Dummies, Pivot and label-aligned Concat
//   - core/model: transformer contracts, RowShape and learned state
//   - preprocessing: CombinationOHE, CategoryToValue, CategoryToDummies,
//     SelectiveScaler and the StandardScaler/MinMaxScaler it can wrap
//   - pkg/errors: structured errors and warnings
//   - pkg/log: zerolog-backed structured logging
//
// # Row shape
//
// Some operations pivot on the row index and return one row per distinct
// index label instead of one row per input row: CombinationOHE in aggregate
// mode and CategoryToValue.FitTransform. Each transformer implements
// model.ShapeReporter so callers can check before relying on positional
// alignment.
//
// # Warnings
//
// Non-fatal conditions such as value truncation are reported through
// errors.Warn and end up in the structured log at warn level.
package framekit
