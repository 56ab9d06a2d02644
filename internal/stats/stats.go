package stats

import (
	"context"
	"log"

	"github.com/mpratt21/recipebox/internal/metrics"
	"github.com/mpratt21/recipebox/internal/repo"
	"github.com/robfig/cron/v3"
)

// Run starts a background collector that refreshes the users_total and
// recipes_total gauges from the store once a minute. It refreshes once
// immediately so the gauges are populated right after startup.
func Run(users *repo.UserRepo, recipes *repo.RecipeRepo) *cron.Cron {
	refresh := func() {
		ctx := context.Background()

		if n, err := users.Count(ctx); err != nil {
			log.Printf("stats: count users: %v", err)
		} else {
			metrics.SetUsersTotal(n)
		}

		if n, err := recipes.Count(ctx); err != nil {
			log.Printf("stats: count recipes: %v", err)
		} else {
			metrics.SetRecipesTotal(n)
		}
	}

	refresh()

	c := cron.New()
	if _, err := c.AddFunc("@every 1m", refresh); err != nil {
		// "@every 1m" is a constant expression; this only fires if it is edited badly.
		log.Printf("stats: schedule refresh: %v", err)
		return c
	}
	c.Start()
	return c
}
