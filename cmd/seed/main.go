package main

import (
	"context"
	"flag"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/pageza/wod-analyzer/backend/config"
	"github.com/pageza/wod-analyzer/backend/internal/database"
	"github.com/pageza/wod-analyzer/backend/internal/models"
	"github.com/pageza/wod-analyzer/backend/internal/service"
	"github.com/pageza/wod-analyzer/backend/internal/types"
)

// demoWod is a canned analysis so the history can be filled without
// calling the model
type demoWod struct {
	name      string
	text      string
	location  string
	wodType   string
	intensity int
	patterns  []types.Pattern
	lower     []types.Muscle
	core      []types.Muscle
	upper     []types.Muscle
}

var demoWods = []demoWod{
	{
		name:      "Piernas de cemento",
		text:      "AMRAP 12: 10 wall balls, 10 box jumps, 10 toes to bar",
		location:  "Enjoy",
		wodType:   "AMRAP 12",
		intensity: 8,
		patterns: []types.Pattern{
			{Name: "Sentadilla", Percent: 40, Color: types.ColorRed},
			{Name: "Salto/Pliometría", Percent: 30, Color: types.ColorOrange},
			{Name: "Core/Abdominal", Percent: 30, Color: types.ColorOrange},
		},
		lower: []types.Muscle{{Name: "Cuádriceps", Color: types.ColorRed, Level: 90}, {Name: "Glúteos", Color: types.ColorOrange, Level: 70}},
		core:  []types.Muscle{{Name: "Recto abdominal", Color: types.ColorOrange, Level: 65}},
	},
	{
		name:      "Tirones",
		text:      "5 rounds: 10 pull-ups, 15 ring rows, 400m run",
		location:  "Blue Gorilla",
		wodType:   "For Time",
		intensity: 7,
		patterns: []types.Pattern{
			{Name: "Tracción vertical", Percent: 40, Color: types.ColorRed},
			{Name: "Tracción horizontal", Percent: 30, Color: types.ColorOrange},
			{Name: "Locomotor/Cíclico", Percent: 30, Color: types.ColorOrange},
		},
		upper: []types.Muscle{{Name: "Dorsal/Espalda alta", Color: types.ColorRed, Level: 85}, {Name: "Bíceps", Color: types.ColorOrange, Level: 60}},
	},
	{
		name:      "Engine",
		text:      "EMOM 20: 15 cal row / 12 burpees",
		location:  "The Island Box",
		wodType:   "EMOM 20",
		intensity: 6,
		patterns: []types.Pattern{
			{Name: "Locomotor/Cíclico", Percent: 70, Color: types.ColorRed},
			{Name: "Empuje horizontal", Percent: 30, Color: types.ColorOrange},
		},
		lower: []types.Muscle{{Name: "Cuádriceps", Color: types.ColorOrange, Level: 50}},
		upper: []types.Muscle{{Name: "Pectoral", Color: types.ColorYellow, Level: 35}},
	},
}

var demoAthletes = []types.CreateAthleteRequest{
	{Name: "Lucía", Gender: types.GenderFemale, Age: 34, HeightCm: 168, WeightKg: 64, ExperienceYears: 2, ExperienceMonths: 3},
	{Name: "Marco", Gender: types.GenderMale, Age: 41, HeightCm: 181, WeightKg: 82, ExperienceMonths: 8},
}

func (d demoWod) analysis() *types.WodAnalysis {
	return &types.WodAnalysis{
		Transcription: d.text,
		WodType:       d.wodType,
		Intensity:     d.intensity,
		Focus:         types.ModeRetrospective,
		Patterns:      d.patterns,
		Muscles:       types.MuscleGroups{LowerBody: d.lower, Core: d.core, UpperBody: d.upper},
		Skills:        []types.Skill{{Name: "Resistencia cardiovascular", Color: types.ColorOrange, Level: 60}},
		Gaps:          []types.Gap{},
		Tip:           "Datos de demostración.",
		Analysis:      "Entrada generada para desarrollo local.",
	}
}

func main() {
	days := flag.Int("days", 7, "days of history to generate, one WOD per day")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db.DB, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	athletes := service.NewAthleteService(db.DB)
	wods := service.NewWodService(db.DB, nil)

	existing, err := athletes.List(ctx)
	if err != nil {
		log.Fatalf("Failed to list athletes: %v", err)
	}
	known := make(map[string]models.Athlete, len(existing))
	for _, a := range existing {
		known[a.Name] = a
	}

	var first *models.Athlete
	for i := range demoAthletes {
		req := demoAthletes[i]
		if a, ok := known[req.Name]; ok {
			log.Infof("Athlete %s already exists, skipping...", req.Name)
			if first == nil {
				first = &a
			}
			continue
		}
		created, err := athletes.Create(ctx, &req)
		if err != nil {
			log.Fatalf("Failed to create athlete %s: %v", req.Name, err)
		}
		log.Infof("Created athlete %s (%s)", created.Name, created.ID)
		if first == nil {
			first = created
		}
	}

	var count int64
	if err := db.DB.Model(&models.WodEntry{}).Count(&count).Error; err != nil {
		log.Fatalf("Failed to count history: %v", err)
	}
	if count > 0 {
		log.Infof("History already has %d entries, not adding more", count)
		return
	}

	now := time.Now().UTC()
	for day := *days; day >= 1; day-- {
		demo := demoWods[day%len(demoWods)]
		in := service.RecordInput{
			WodName:  demo.name,
			WodText:  demo.text,
			Location: demo.location,
			Mode:     types.ModeRetrospective,
			Analysis: demo.analysis(),
		}
		if first != nil {
			in.AthleteID = &first.ID
		}

		entry, err := wods.Record(ctx, in)
		if err != nil {
			log.Fatalf("Failed to record demo WOD: %v", err)
		}
		at := now.AddDate(0, 0, -day)
		if err := db.DB.Model(entry).Update("created_at", at).Error; err != nil {
			log.Fatalf("Failed to backdate demo WOD: %v", err)
		}
		log.Infof("Logged %s at %s on %s", demo.name, demo.location, at.Format("2006-01-02"))
	}

	log.Infof("Seeded %d days of history", *days)
}
