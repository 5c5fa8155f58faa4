package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vetdesk/clinic-scheduling/internal/db"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	dsn := os.Getenv("POSTGRES_DSN")
	if dsn == "" {
		log.Fatal("POSTGRES_DSN is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := db.ConnectPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	gofakeit.Seed(time.Now().UnixNano())

	clinicIDs, err := seedClinics(context.Background(), pool, 5)
	if err != nil {
		log.Fatalf("seed clinics: %v", err)
	}
	if err := seedHours(context.Background(), pool, clinicIDs); err != nil {
		log.Fatalf("seed operating hours: %v", err)
	}
	vetIDs, err := seedVets(context.Background(), pool, clinicIDs, 8)
	if err != nil {
		log.Fatalf("seed vets: %v", err)
	}
	if err := seedAppointments(context.Background(), pool, clinicIDs, vetIDs, 200); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	log.Println("seed complete")
}

func seedClinics(ctx context.Context, pool *pgxpool.Pool, count int) ([]uuid.UUID, error) {
	log.Printf("seeding %d clinics", count)

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ids := make([]uuid.UUID, 0, count)
	for i := 0; i < count; i++ {
		id := uuid.New()
		name := fmt.Sprintf("%s Veterinary Clinic", gofakeit.City())
		address := gofakeit.Address().Address

		_, err := tx.Exec(ctx, `
			INSERT INTO clinics (id, name, address, settings, active, created_at, updated_at)
			VALUES ($1, $2, $3, '{}', true, now(), now())
		`, id, name, address)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("clinics seeded")
	return ids, nil
}

// seedHours opens every clinic Monday through Saturday. Sunday stays
// closed so the closed-day rejection path sees real data.
func seedHours(ctx context.Context, pool *pgxpool.Pool, clinicIDs []uuid.UUID) error {
	log.Printf("seeding operating hours for %d clinics", len(clinicIDs))

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for _, clinicID := range clinicIDs {
		for weekday := 1; weekday <= 6; weekday++ {
			opens, closes := "08:00", "18:00"
			if weekday == 6 {
				opens, closes = "09:00", "13:00"
			}

			_, err := tx.Exec(ctx, `
				INSERT INTO clinic_hours (id, clinic_id, weekday, opens_at, closes_at, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, now(), now())
			`, uuid.New(), clinicID, weekday, opens, closes)
			if err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("operating hours seeded")
	return nil
}

func seedVets(ctx context.Context, pool *pgxpool.Pool, clinicIDs []uuid.UUID, perClinic int) ([]uuid.UUID, error) {
	log.Printf("seeding %d vets per clinic", perClinic)

	specialties := []string{
		"General Practice",
		"Surgery",
		"Dermatology",
		"Cardiology",
		"Dentistry",
		"Orthopedics",
		"Exotic Animals",
		"Ophthalmology",
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var ids []uuid.UUID
	for _, clinicID := range clinicIDs {
		for i := 0; i < perClinic; i++ {
			id := uuid.New()
			name := gofakeit.Name()
			email := fmt.Sprintf("%s.%s@%s", gofakeit.Username(), id.String()[:8], gofakeit.DomainName())
			spec := specialties[gofakeit.Number(0, len(specialties)-1)]

			_, err := tx.Exec(ctx, `
				INSERT INTO vets (id, clinic_id, name, email, specialty, active, created_at, updated_at)
				VALUES ($1, $2, $3, $4, $5, true, now(), now())
			`, id, clinicID, name, email, spec)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	log.Println("vets seeded")
	return ids, nil
}

func seedAppointments(ctx context.Context, pool *pgxpool.Pool, clinicIDs, vetIDs []uuid.UUID, count int) error {
	log.Printf("seeding %d appointments", count)

	origins := []string{"chatbot", "manual", "whatsapp", "telegram"}
	perClinic := len(vetIDs) / len(clinicIDs)

	// Anchor the grid on next Monday so dayOffset 0-5 is Monday-Saturday.
	base := time.Now().AddDate(0, 0, 1)
	for base.Weekday() != time.Monday {
		base = base.AddDate(0, 0, 1)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	for i := 0; i < count; i++ {
		// Walk vets round-robin over a 30-minute grid inside 08:00-18:00,
		// Monday to Saturday, so seeded windows never overlap per vet.
		vetIdx := i % len(vetIDs)
		vetID := vetIDs[vetIdx]
		clinicID := clinicIDs[vetIdx/perClinic]

		slot := (i / len(vetIDs)) % 18
		dayOffset := (i / (len(vetIDs) * 18)) % 6
		day := base.AddDate(0, 0, dayOffset)
		start := time.Date(day.Year(), day.Month(), day.Day(), 8, 0, 0, 0, time.UTC).
			Add(time.Duration(slot) * 30 * time.Minute)
		end := start.Add(30 * time.Minute)

		phone := gofakeit.Phone()

		_, err := tx.Exec(ctx, `
			INSERT INTO appointments (
				id, clinic_id, vet_id, client_name, client_phone, pet_name,
				start_time, end_time, status, origin, external_event_id,
				created_at, updated_at
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'scheduled', $9, NULL, now(), now())
		`, uuid.New(), clinicID, vetID, gofakeit.Name(), phone, gofakeit.PetName(),
			start, end, origins[gofakeit.Number(0, len(origins)-1)])
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	log.Println("appointments seeded")
	return nil
}
