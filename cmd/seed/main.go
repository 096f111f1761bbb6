package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"

	"go.uber.org/zap"

	"climatejobs/internal/config"
	"climatejobs/internal/database"
	"climatejobs/internal/domain/application"
	"climatejobs/internal/domain/auth"
	"climatejobs/internal/domain/job"
	"climatejobs/internal/logger"
)

type seedJob struct {
	title    string
	category job.Category
	location string
	lat, lng float64
	reward   float64
}

var jobs = []seedJob{
	{"Plant 50 neem saplings along the canal", job.CategoryTreePlanting, "Ward 4, Hosahalli", 12.9716, 77.5946, 1500},
	{"Segregate waste at the weekly market", job.CategoryWasteManagement, "Market Road", 12.9780, 77.6010, 800},
	{"Desilt the village pond inlet", job.CategoryWaterConservation, "Kere Pond", 12.9655, 77.5870, 2200},
	{"Clean rooftop solar panels at the school", job.CategoryRenewableEnergy, "Government Primary School", 12.9702, 77.5990, 600},
	{"Run a plastic-free awareness drive", job.CategoryAwareness, "Panchayat Office", 12.9741, 77.5922, 500},
	{"Build compost pits for the anganwadi", job.CategoryOther, "Anganwadi Centre 2", 12.9690, 77.5901, 950},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config load failed:", err)
	}
	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	defer func() { _ = appLogger.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, appLogger)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}
	defer db.Close()

	if err := database.Migrate(db.Gorm); err != nil {
		log.Fatal("migrate failed:", err)
	}

	// clean old data, children first
	appLogger.Info("cleaning old data")
	for _, table := range []string{"notifications", "payments", "submissions", "job_applications", "jobs", "users"} {
		if err := db.Gorm.Exec("DELETE FROM " + table).Error; err != nil {
			log.Fatalf("cleanup %s failed: %v", table, err)
		}
	}

	ctx := context.Background()
	users := auth.NewService(auth.NewUserRepository(db.Gorm), nil, appLogger)

	mustUser := func(email, password, name string, role auth.Role) *auth.User {
		u, err := users.CreateUser(ctx, email, password, name, role)
		if err != nil {
			log.Fatalf("create user %s failed: %v", email, err)
		}
		appLogger.Info("user created", zap.String("email", email), zap.String("role", string(role)))
		return u
	}

	mustUser("admin@climatejobs.org", "admin123", "Platform Admin", auth.RoleAdmin)
	panchayat := mustUser("hosahalli@climatejobs.org", "panchayat123", "Hosahalli Gram Panchayat", auth.RoleCreator)

	workers := make([]*auth.User, 0, 3)
	for i, name := range []string{"Lakshmi", "Ravi", "Fatima"} {
		workers = append(workers, mustUser(
			fmt.Sprintf("worker%d@climatejobs.org", i+1), "worker123", name, auth.RoleWorker,
		))
	}

	for i, s := range jobs {
		lat, lng := s.lat, s.lng
		j := &job.Job{
			Title:                s.title,
			Description:          s.title + ". Tools are provided on site.",
			Category:             s.category,
			Status:               job.StatusOpen,
			RewardAmount:         s.reward,
			Location:             s.location,
			Lat:                  &lat,
			Lng:                  &lng,
			ProofRequirements:    "Before and after photos taken from the same spot",
			VerificationRequired: true,
			CreatedBy:            panchayat.ID,
		}
		if err := db.Gorm.Create(j).Error; err != nil {
			log.Fatalf("create job failed: %v", err)
		}

		// a couple of pending applications per job
		for _, w := range workers[:1+rand.Intn(len(workers))] {
			app := &application.Application{
				JobID:    j.ID,
				WorkerID: w.ID,
				Status:   application.StatusPending,
				Message:  fmt.Sprintf("I live nearby and can start on day %d.", i+1),
			}
			if err := db.Gorm.Create(app).Error; err != nil {
				log.Fatalf("create application failed: %v", err)
			}
		}
	}

	appLogger.Info("seed completed",
		zap.Int("jobs", len(jobs)),
		zap.Int("workers", len(workers)),
	)
}
