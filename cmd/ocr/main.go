package main

import (
	"os"

	"github.com/Vovarama1992/sinhala_workers/internal/app"
)

func main() {

	// =========================================================================
	// ONE UNIT OF WORK: arg -> envelope on stdout -> exit code
	// =========================================================================

	os.Exit(app.Run(app.KindOCR, os.Args[1:], os.Stdout, os.Stderr))
}
