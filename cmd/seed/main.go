package main

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/pizzastack/pizzastack-backend/config"
	"github.com/pizzastack/pizzastack-backend/internal/app/model"
	"github.com/pizzastack/pizzastack-backend/internal/app/repository"
	"github.com/pizzastack/pizzastack-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Imports menu items from an XLSX sheet with columns:
// title | description | image | price
func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}

	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Make sure the bootstrap admin exists before the menu goes in.
	if err := db.Seed(&cfg.Admin); err != nil {
		log.Fatal("Failed to seed default admin:", err)
	}

	menuRepo := repository.NewMenuRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	items, err := readMenuFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total menu items to import: %d\n", len(items))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	for i := range items {
		if err := menuRepo.Create(&items[i]); err != nil {
			log.Printf("Failed to import %q: %v", items[i].Title, err)
			continue
		}
		imported++
	}

	fmt.Println("Import completed successfully!")
	fmt.Printf("Total menu items imported: %d\n", imported)
}

func readMenuFromXLSX(filePath string) ([]model.MenuItem, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	fmt.Printf("Reading sheet: %s\n", sheetName)

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	var items []model.MenuItem
	seen := make(map[string]bool)
	skippedCount := 0

	for i, row := range rows {
		// First row is the header
		if i == 0 {
			fmt.Printf("Headers: %v\n", row)
			continue
		}

		if len(row) < 4 {
			skippedCount++
			continue
		}

		title := strings.TrimSpace(row[0])
		description := strings.TrimSpace(row[1])
		image := strings.TrimSpace(row[2])
		priceStr := strings.TrimSpace(row[3])

		if title == "" || seen[title] {
			skippedCount++
			continue
		}

		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			skippedCount++
			continue
		}

		seen[title] = true
		items = append(items, model.MenuItem{
			Title:       title,
			Description: description,
			Image:       image,
			Price:       price,
		})
	}

	if skippedCount > 0 {
		fmt.Printf("Skipped %d invalid or duplicate rows\n", skippedCount)
	}

	return items, nil
}
