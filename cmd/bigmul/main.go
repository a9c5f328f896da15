// Command bigmul benchmarks the Toom-Cook multiplication engines on random
// operands and cross-checks every product against math/big.
package main

import (
	"context"
	"os"

	"github.com/agbru/bigmul/internal/app"
	apperrors "github.com/agbru/bigmul/internal/errors"
)

func main() {
	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(0)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
