package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/wishwall-backend/config"
	"github.com/ikkim/wishwall-backend/internal/app/domain"
	"github.com/ikkim/wishwall-backend/internal/app/model"
	"github.com/ikkim/wishwall-backend/internal/app/repository"
	"github.com/ikkim/wishwall-backend/internal/db"
	"github.com/xuri/excelize/v2"
)

// Seeds the wish board from an XLSX file. Expected columns, first row is
// the header: Wish | Name. Each imported wish gets its own anonymous
// session so the one-wish-per-identity rule keeps holding.
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

	sessionRepo := repository.NewSessionRepository(db.GetDB())
	wishRepo := repository.NewWishRepository(db.GetDB())

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	wishes, err := readWishesFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}

	fmt.Printf("Total wishes to import: %d\n", len(wishes))

	fmt.Print("Do you want to proceed with the import? (yes/no): ")
	var confirm string
	fmt.Scanln(&confirm)
	if confirm != "yes" && confirm != "y" {
		fmt.Println("Import cancelled.")
		return
	}

	imported := 0
	skipped := 0
	for i, row := range wishes {
		session, err := sessionRepo.Mint()
		if err != nil {
			log.Fatal("Failed to mint session:", err)
		}

		sessionID, err := domain.NewSessionID(session.ID)
		if err != nil {
			log.Fatal("Invalid session ID:", err)
		}

		wish, err := domain.NewWish(row.content, row.name, domain.SessionIdentity(sessionID))
		if err != nil {
			fmt.Printf("Skipping row %d: %v\n", i+2, err)
			skipped++
			continue
		}

		if err := wishRepo.Save(model.WishFromDomain(wish)); err != nil {
			log.Fatal("Failed to save wish:", err)
		}
		imported++
	}

	fmt.Printf("Import finished: %d imported, %d skipped\n", imported, skipped)
}

type wishRow struct {
	content string
	name    *string
}

func readWishesFromXLSX(path string) ([]wishRow, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("no data rows in sheet %q", sheet)
	}

	wishes := make([]wishRow, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		content := strings.TrimSpace(row[0])
		if content == "" {
			continue
		}

		var name *string
		if len(row) > 1 {
			if trimmed := strings.TrimSpace(row[1]); trimmed != "" {
				name = &trimmed
			}
		}

		wishes = append(wishes, wishRow{content: content, name: name})
	}

	return wishes, nil
}
