package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"pharmaguard/internal/catalog"
)

func main() {
	path := flag.String("file", "", "Path to a catalog bootstrap JSON file (required)")
	flag.Parse()

	if *path == "" {
		fmt.Println("Usage: loadcatalog -file <bootstrap.json>")
		os.Exit(1)
	}

	f, err := os.Open(*path)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *path, err)
	}
	defer f.Close()

	cat := catalog.New()
	n, err := cat.Load(f)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	stats := cat.Statistics()
	log.Printf("Loaded %d medications from %s", n, *path)
	log.Printf("Statistics: %+v", stats)
}
