package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"

	"github.com/nowly-app/Nowly-BookingService/internal/config"
	"github.com/nowly-app/Nowly-BookingService/internal/domain"
	slotRepo "github.com/nowly-app/Nowly-BookingService/internal/infra/storage/slot"
	"github.com/nowly-app/Nowly-BookingService/pkg/logger"
	"github.com/nowly-app/Nowly-BookingService/pkg/types"
)

// seedSlot запись слота в seed-файле
// Датасеты заранее геокодированы, поэтому координаты обычно заданы
type seedSlot struct {
	Category        string   `json:"category"`
	SubCategory     *string  `json:"subCategory,omitempty"`
	Name            string   `json:"name"`
	Address         string   `json:"address"`
	Date            string   `json:"date"`      // "2025-10-15"
	StartTime       string   `json:"startTime"` // "10:00"
	DurationMinutes int      `json:"durationMinutes,omitempty"`
	Longitude       *float64 `json:"longitude,omitempty"`
	Latitude        *float64 `json:"latitude,omitempty"`
}

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	filePath := flag.String("file", "", "path to JSON file with slots")
	flag.Parse()

	if *filePath == "" {
		fmt.Println("Usage: seed -file <slots.json> [-config config.toml]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New("", cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatal("Failed to read seed file %s: %v", *filePath, err)
	}

	var seedSlots []seedSlot
	if err := json.Unmarshal(data, &seedSlots); err != nil {
		log.Fatal("Failed to parse seed file %s: %v", *filePath, err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("Failed to ping database: %v", err)
	}

	repo := slotRepo.NewRepository(db)
	ctx := context.Background()

	created := 0
	for i, s := range seedSlots {
		slot, err := toDomainSlot(s)
		if err != nil {
			log.Warn("Skipping slot #%d (%s): %v", i, s.Name, err)
			continue
		}

		if _, err := repo.Create(ctx, slot); err != nil {
			log.Error("Failed to create slot #%d (%s): %v", i, s.Name, err)
			continue
		}
		created++
	}

	log.Info("Seeded %d of %d slots from %s", created, len(seedSlots), *filePath)
}

func toDomainSlot(s seedSlot) (*domain.Slot, error) {
	if s.Category == "" || s.Address == "" {
		return nil, fmt.Errorf("category and address are required")
	}

	date, err := time.Parse(domain.DateFormat, s.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", s.Date, err)
	}

	startTime, err := types.NewTimeStringFromString(s.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime %q: %w", s.StartTime, err)
	}

	durationMinutes := s.DurationMinutes
	if durationMinutes == 0 {
		durationMinutes = domain.DefaultSlotDurationMinutes
	}

	return &domain.Slot{
		ServiceCategory: s.Category,
		SubCategory:     s.SubCategory,
		ProviderName:    s.Name,
		Address:         s.Address,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: durationMinutes,
		Available:       true,
		Longitude:       s.Longitude,
		Latitude:        s.Latitude,
	}, nil
}
