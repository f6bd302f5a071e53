package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/pmurley/capbot/internal/backend"
	"github.com/pmurley/capbot/internal/config"
	"github.com/pmurley/capbot/internal/models"
)

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

	fmt.Printf("Fetching outline for %s from %s...\n", team, cfg.BackendURL)
	outline, err := backend.NewClient(cfg.BackendURL).TeamOutline(ctx, team)
	if err != nil {
		log.Fatal("Failed to fetch outline:", err)
	}

	l, discrepancies, err := models.ParseOutline(*outline, cfg.SeasonYear, cfg.SalaryCap, cfg.TagLimit)
	if err != nil {
		log.Fatal("Failed to parse outline:", err)
	}

	fmt.Printf("%s %d: cap %s, committed %s, dead %s, space %s\n",
		l.TeamCode, l.SeasonYear,
		models.FormatMoney(l.TotalCap), models.FormatMoney(l.Committed()),
		models.FormatMoney(l.DeadMoney()), models.FormatMoney(l.SpaceAvailable()))

	if outline.Team.TeamCapSpace.IsPositive() && !outline.Team.TeamCapSpace.Equal(l.SpaceAvailable()) {
		fmt.Printf("Backend reports space %s\n", models.FormatMoney(outline.Team.TeamCapSpace))
	}

	for _, d := range discrepancies {
		fmt.Println("  mismatch:", d)
	}

	for i, c := range l.Roster().TopCapHits(10) {
		fmt.Printf("%2d. %-24s %-4s %3d yrs  hit %-12s dead %s\n",
			i+1, c.PlayerName, c.Position, c.YearsRemaining,
			models.FormatMoney(c.CapHit()), models.FormatMoney(c.DeadCap()))
	}
}
