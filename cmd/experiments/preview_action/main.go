package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/joho/godotenv"
	"github.com/pmurley/capbot/internal/backend"
	"github.com/pmurley/capbot/internal/capengine"
	"github.com/pmurley/capbot/internal/config"
	"github.com/pmurley/capbot/internal/models"
)

// Ranks every possible release on a team by the cap space it would free.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	team := "KC"
	if len(os.Args) > 1 {
		team = os.Args[1]
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	outline, err := backend.NewClient(cfg.BackendURL).TeamOutline(ctx, team)
	if err != nil {
		log.Fatal("Failed to fetch outline:", err)
	}
	l, _, err := models.ParseOutline(*outline, cfg.SeasonYear, cfg.SalaryCap, cfg.TagLimit)
	if err != nil {
		log.Fatal("Failed to parse outline:", err)
	}

	impacts := capengine.PreviewCuts(l)
	sort.Slice(impacts, func(i, j int) bool {
		return impacts[i].CapSavings.GreaterThan(impacts[j].CapSavings)
	})

	fmt.Printf("%s space now %s\n\n", l.TeamCode, models.FormatMoney(l.SpaceAvailable()))
	for _, impact := range impacts {
		fmt.Printf("%-24s %-4s saves %-14s dead %-14s space after %s\n",
			impact.PlayerName, impact.Position,
			models.FormatMoney(impact.CapSavings), models.FormatMoney(impact.DeadCapDelta),
			models.FormatMoney(impact.SpaceAfter))
	}
}
