package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/osse101/rewardwheel/internal/event"
	"github.com/osse101/rewardwheel/internal/random"
	"github.com/osse101/rewardwheel/internal/wheel"
)

// Prints the configured wheel and the observed distribution of a seeded draw run
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default/environment variables")
	}

	defaultPath := os.Getenv("WHEEL_CONFIG_PATH")
	if defaultPath == "" {
		defaultPath = "configs/wheel.yaml"
	}

	path := flag.String("config", defaultPath, "wheel config file")
	draws := flag.Int("draws", 100000, "number of simulated spins")
	seed := flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	deadLetters := flag.String("dead-letters", "", "summarize a dead-letter file instead of simulating")
	flag.Parse()

	if *deadLetters != "" {
		summarizeDeadLetters(*deadLetters)
		return
	}

	cfg, err := wheel.LoadConfig(*path)
	if err != nil {
		log.Fatalf("Failed to load wheel config: %v", err)
	}
	table, err := cfg.Table()
	if err != nil {
		log.Fatalf("Invalid wheel table: %v", err)
	}

	fmt.Println("--- Reveal ---")
	for _, step := range cfg.Reveal.Phases {
		fmt.Printf("%-10s %v\n", step.Phase, step.Offset)
	}

	counts := make(map[string]int, table.Len())
	src := random.NewSeededSource(*seed)
	for i := 0; i < *draws; i++ {
		out, err := table.Resolve(src.Next())
		if err != nil {
			log.Fatalf("Resolve failed: %v", err)
		}
		counts[out.ID]++
	}

	fmt.Printf("\n--- Outcomes (%d draws, seed %d) ---\n", *draws, *seed)
	for _, o := range table.Outcomes() {
		expected, _ := table.Probability(o.ID)
		observed := float64(counts[o.ID]) / float64(*draws)
		fmt.Printf("%-16s %-10s expected %6.2f%%  observed %6.2f%%\n",
			o.ID, o.Rarity, expected*100, observed*100)
	}
}

func summarizeDeadLetters(path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open dead-letter file: %v", err)
	}
	defer f.Close()

	entries, err := event.ReadDeadLetters(f)
	if err != nil {
		log.Printf("Stopped early: %v", err)
	}

	byType := make(map[event.Type]int)
	for _, e := range entries {
		byType[e.Event.Type]++
	}
	fmt.Printf("--- Dead letters (%d) ---\n", len(entries))
	for typ, n := range byType {
		fmt.Printf("%-24s %d\n", typ, n)
	}
	if len(entries) > 0 {
		last := entries[len(entries)-1]
		fmt.Printf("\nlatest: %s at %s after %d attempts: %s\n",
			last.Event.Type, last.Timestamp.Format(time.RFC3339), last.Attempts, last.LastError)
	}
}
