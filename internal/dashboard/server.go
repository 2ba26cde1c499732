package dashboard

import (
	"bufio"
	"encoding/json"
	"net/http"
	"os"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"

	"github.com/tpcpricelists/pricelist/internal/domain"
)

// Handler renders the stats page from the audit log: how often the cache
// saved a scrape, and how large each seller's latest pricelist ran.
func Handler(auditPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events := loadEvents(auditPath)

		// 1. Cache effectiveness
		pie := charts.NewPie()
		pie.SetGlobalOptions(
			charts.WithTitleOpts(opts.Title{Title: "Cache Hits vs Regenerations"}),
			charts.WithInitializationOpts(opts.Initialization{Theme: types.ThemeWesteros}),
		)

		hits, regens := 0, 0
		for _, e := range events {
			if e.CacheHit {
				hits++
			} else {
				regens++
			}
		}
		pie.AddSeries("Requests", []opts.PieData{
			{Name: "Cache hit", Value: hits},
			{Name: "Regenerated", Value: regens},
		})

		// 2. Items per pricelist (latest regeneration wins)
		bar := charts.NewBar()
		bar.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Items per Pricelist"}))

		itemCounts := make(map[string]int)
		for _, e := range events {
			if !e.CacheHit {
				itemCounts[e.Username] = e.Items
			}
		}

		usernames := make([]string, 0, len(itemCounts))
		for u := range itemCounts {
			usernames = append(usernames, u)
		}
		sort.Strings(usernames)

		var barY []opts.BarData
		for _, u := range usernames {
			barY = append(barY, opts.BarData{Value: itemCounts[u]})
		}
		bar.SetXAxis(usernames).AddSeries("Items", barY)

		pie.Render(w)
		bar.Render(w)
	}
}

func loadEvents(path string) []domain.Event {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var events []domain.Event
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var e domain.Event
		if err := json.Unmarshal(scanner.Bytes(), &e); err == nil {
			events = append(events, e)
		}
	}
	return events
}
