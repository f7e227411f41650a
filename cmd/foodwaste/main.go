package main

import (
	"fmt"
	"os"
	_ "time/tzdata" // distrolessイメージでSCHEDULE_TIMEZONEを解決するため

	"github.com/hitoshi/foodwaste/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
