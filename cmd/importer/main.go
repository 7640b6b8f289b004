package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"rozo-books/internal/config"
	"rozo-books/internal/db"
	"rozo-books/internal/importer"
	"rozo-books/internal/repository/catalog"

	"github.com/joho/godotenv"
)

func main() {
	var filePath string
	flag.StringVar(&filePath, "file", "", "Path to book catalog CSV export")
	flag.Parse()

	if filePath == "" {
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()
	cfg := config.FromEnv()
	ctx := context.Background()

	pool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		log.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	f, err := os.Open(filePath)
	if err != nil {
		log.Fatalf("open file: %v", err)
	}
	defer f.Close()

	imp := importer.NewCSVImporter(f, catalog.NewPostgres(pool, nil))

	start := time.Now()
	count, err := imp.Run(ctx)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}

	fmt.Printf("Imported %d books in %s\n", count, time.Since(start).Truncate(time.Millisecond))
}
