package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "kick":
		kickCmd(apiURL, args)
	case "heal":
		healCmd(apiURL, args)
	case "reset":
		resetCmd(apiURL)
	case "status":
		statusCmd(apiURL)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Kick Simulator - Development tool for exercising a running server

USAGE:
  simulator <command> [options]

COMMANDS:
  kick      Fire kicks with random kick types from fake kickers
  heal      Heal Danila
  reset     Reset Danila to full health
  status    Print Danila's status
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend URL (default: http://localhost:8080)

EXAMPLES:
  # Fire 10 kicks one after another
  simulator kick --count=10

  # Fire 50 kicks from 5 concurrent kickers
  simulator kick --count=50 --workers=5

  # Heal by 35 HP
  simulator heal --amount=35`)
}

var kickerNames = []string{"Alice", "Bob", "Carol", "Dave", "Eve", "Mallory", "Trent", "Peggy"}

func kickCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("kick", flag.ExitOnError)
	count := fs.Int("count", 10, "Number of kicks to fire")
	workers := fs.Int("workers", 1, "Number of concurrent kickers")
	fs.Parse(args)

	if *count < 1 || *workers < 1 {
		fmt.Println("Error: --count and --workers must be positive")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	kickTypes, err := client.KickTypes()
	if err != nil {
		fmt.Printf("Failed to load kick types: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("=== Firing %d kicks with %d workers ===\n", *count, *workers)

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for w := 0; w < *workers; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for i := range jobs {
				name := kickerNames[rng.Intn(len(kickerNames))]
				var kickTypeID uint
				label := "default"
				if len(kickTypes) > 0 {
					kt := kickTypes[rng.Intn(len(kickTypes))]
					kickTypeID = kt.ID
					label = kt.Name
				}

				if err := client.Kick(name, kickTypeID); err != nil {
					mu.Lock()
					failed++
					mu.Unlock()
					fmt.Printf("  #%d %s (%s) FAILED: %v\n", i+1, name, label, err)
					continue
				}
				fmt.Printf("  #%d %s (%s) OK\n", i+1, name, label)
			}
		}(time.Now().UnixNano() + int64(w))
	}

	for i := 0; i < *count; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	fmt.Println()
	if failed > 0 {
		fmt.Printf("%d of %d kicks failed\n", failed, *count)
	}
	statusCmd(apiURL)
}

func healCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("heal", flag.ExitOnError)
	amount := fs.Int("amount", 20, "HP to restore")
	fs.Parse(args)

	client := NewAPIClient(apiURL)
	if err := client.Heal(*amount); err != nil {
		fmt.Printf("Heal failed: %v\n", err)
		os.Exit(1)
	}
	statusCmd(apiURL)
}

func resetCmd(apiURL string) {
	client := NewAPIClient(apiURL)
	if err := client.Reset(); err != nil {
		fmt.Printf("Reset failed: %v\n", err)
		os.Exit(1)
	}
	statusCmd(apiURL)
}

func statusCmd(apiURL string) {
	client := NewAPIClient(apiURL)
	status, err := client.Status()
	if err != nil {
		fmt.Printf("Failed to get status: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Health: %d/100\n", status.Health)
	fmt.Printf("Kicks received: %d\n", status.TotalKicks)
	if status.LastKicked != nil {
		fmt.Printf("Last kicked: %s\n", status.LastKicked.Format(time.RFC3339))
	}
	if status.Health == 0 {
		fmt.Println("Danila is down 💀")
	}
}
