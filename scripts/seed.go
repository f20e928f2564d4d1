package main

import (
	"context"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/zatekoja/Practitionerbookingdesign/backend/internal/infrastructure/clients/postgres"
	"github.com/zatekoja/Practitionerbookingdesign/backend/pkg/config"
)

// seedSchedule is one practitioner working-day definition to insert
type seedSchedule struct {
	name        string
	openMinute  int
	closeMinute int
	slotMinutes int
	timezone    string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if err := pgClient.Migrate(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		_, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				reservations,
				practitioner_schedules
			RESTART IDENTITY CASCADE
		`)
		if err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	// Seed practitioner schedules covering a few common working-day shapes
	schedules := []seedSchedule{
		{name: "Dr. Amaka Obi (General Practice)", openMinute: 9 * 60, closeMinute: 17 * 60, slotMinutes: 30, timezone: "Africa/Lagos"},
		{name: "Dr. Tunde Bakare (Dentistry)", openMinute: 8 * 60, closeMinute: 16 * 60, slotMinutes: 60, timezone: "Africa/Lagos"},
		{name: "Dr. Ngozi Eze (Physiotherapy)", openMinute: 10 * 60, closeMinute: 18 * 60, slotMinutes: 45, timezone: "Africa/Lagos"},
		{name: "Dr. Femi Adeyemi (Dermatology)", openMinute: 9 * 60, closeMinute: 13 * 60, slotMinutes: 15, timezone: "Africa/Lagos"},
	}

	for _, s := range schedules {
		id := uuid.New().String()
		_, err := pgClient.DB().ExecContext(ctx, `
			INSERT INTO practitioner_schedules
				(practitioner_id, open_minute, close_minute, slot_minutes, timezone)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (practitioner_id) DO NOTHING
		`, id, s.openMinute, s.closeMinute, s.slotMinutes, s.timezone)
		if err != nil {
			log.Printf("Failed to seed schedule for %s: %v", s.name, err)
			continue
		}
		log.Printf("Seeded practitioner %s (%s)", s.name, id)
	}

	log.Println("Seeding complete")
}
