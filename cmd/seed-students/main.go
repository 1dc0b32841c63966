package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/stemsi/student-roster/internal/config"
	"github.com/stemsi/student-roster/internal/database"
	"github.com/stemsi/student-roster/internal/logger"
	"github.com/stemsi/student-roster/internal/model"
	"github.com/stemsi/student-roster/internal/service"
)

var names = []string{
	"Aarav Sharma", "Diya Patel", "Kabir Singh", "Ananya Iyer", "Rohan Gupta",
	"Ishita Verma", "Vihaan Reddy", "Meera Nair", "Arjun Mehta", "Saanvi Joshi",
	"Jane Doe", "John Smith", "Maria Garcia", "Chen Wei", "Fatima Khan",
	"Lucas Martin", "Amara Okafor", "Sofia Rossi", "Noah Brown", "Yuki Tanaka",
}

func main() {
	count := flag.Int("n", len(names), "Number of students to add")
	seed := flag.Uint64("seed", 1, "Random seed for marks")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	repo, closeStore, err := database.OpenRosterRepository(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open roster store")
	}
	defer closeStore()

	svc := service.NewRosterService(repo, nil, log)
	if err := svc.Load(ctx); err != nil {
		// Seeding on top of an unreadable roster would overwrite it.
		log.Fatal().Err(err).Msg("Refusing to seed: roster could not be loaded")
	}

	fmt.Printf("=== Seeding %d Students (store: %s, existing: %d) ===\n", *count, cfg.StoreDriver, svc.Len())

	rng := rand.New(rand.NewPCG(*seed, *seed))
	successCount := 0
	for i := 0; i < *count; i++ {
		d := model.Draft{
			Name: names[i%len(names)],
			Age:  strconv.Itoa(17 + rng.IntN(6)),
		}
		for j := range d.Marks {
			d.Marks[j] = strconv.Itoa(20 + rng.IntN(81))
		}

		st, err := svc.Create(ctx, d)
		if err != nil {
			fmt.Printf("Error creating student %s: %v\n", d.Name, err)
			continue
		}
		successCount++
		fmt.Printf("  %-16s %6s%%  %s\n", st.Name, st.Percentage, st.Division)
	}

	fmt.Printf("\nSeed completed! Successfully added %d/%d students.\n", successCount, *count)
}
