package search

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"exusiai.dev/pocketstats/internal/carddb"
	"exusiai.dev/pocketstats/internal/core/search"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/debounce"
)

func Command() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "search the card database interactively, one query per line",
		Flags: []cli.Flag{
			&cli.DurationFlag{
				Name:  "debounce",
				Usage: "quiet window before a typed query is searched",
				Value: debounce.DefaultWait,
			},
			&cli.StringSliceFlag{
				Name:  "rarity",
				Usage: "only list cards of these rarities",
			},
		},
		Action: func(c *cli.Context) error {
			db, err := carddb.Load()
			if err != nil {
				return err
			}

			f := model.Filters{Rarity: rarities(c.StringSlice("rarity"))}
			if !model.ValidRarities(f.Rarity) {
				return cli.Exit("unknown rarity in --rarity", 2)
			}

			return Run(c.App.Reader, c.App.Writer, db, f, c.Duration("debounce"))
		},
	}
}

func rarities(raw []string) []model.Rarity {
	out := make([]model.Rarity, 0, len(raw))
	for _, r := range raw {
		out = append(out, model.Rarity(strings.TrimSpace(r)))
	}
	return out
}

// Run feeds every line of in to a debounced search box and prints the results of the
// queries that survive the quiet window. End of input submits the last query.
func Run(in io.Reader, out io.Writer, db *carddb.DB, f model.Filters, wait time.Duration) error {
	var mu sync.Mutex
	show := func(q string) {
		mu.Lock()
		defer mu.Unlock()

		cards := search.Cards(db.Cards(), q, f)
		fmt.Fprintf(out, "%q: %d cards\n", q, len(cards))
		for _, c := range cards {
			fmt.Fprintf(out, "  %-8s %-24s %s\n", c.CardID, c.Name, c.Rarity)
		}
	}

	input := search.NewInput(wait, show)
	defer input.Close()

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		input.Change(scanner.Text())
	}
	input.Submit()

	return scanner.Err()
}
