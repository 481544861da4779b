package main

import (
	"log"
	"os"

	"subsim/internal/dashboard"
)

func main() {
	outDir := "build"
	if len(os.Args) > 1 {
		outDir = os.Args[1]
	}
	if err := dashboard.Render(outDir); err != nil {
		log.Fatal(err)
	}
}
