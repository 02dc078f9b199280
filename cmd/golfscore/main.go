// cmd/golfscore is an offline companion to the API server: it scores a round described in a
// YAML file, prints a participant's scorecard, lists the supported formats and applies the
// database migrations without starting the server.
//
//	golfscore leaderboard --game testdata/stableford.yaml
//	golfscore leaderboard --game round.yaml --format stableford --json
//	golfscore scorecard --game round.yaml --participant p2
//	golfscore formats
//	golfscore migrate --dsn postgres://... --dir migrations
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/trentd187/golf-scoring/internal/config"
	"github.com/trentd187/golf-scoring/internal/database"
	"github.com/trentd187/golf-scoring/internal/scoring"
)

func main() {
	if err := newApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "golfscore:", err)
		os.Exit(1)
	}
}

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "golfscore",
		Usage:     "score golf rounds from the command line",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "aliases",
				Usage:   "YAML file with extra format aliases",
				EnvVars: []string{"FORMAT_ALIASES_FILE"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "log scoring decisions to stderr",
			},
		},
		Commands: []*cli.Command{
			leaderboardCommand(),
			scorecardCommand(),
			formatsCommand(),
			migrateCommand(),
		},
	}
}

// gameFlags are shared by the commands that score a game file.
func gameFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "game",
			Aliases:  []string{"g"},
			Usage:    "YAML file describing the round",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "score under this format instead of the one in the file",
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print JSON instead of a table",
		},
	}
}

func leaderboardCommand() *cli.Command {
	return &cli.Command{
		Name:  "leaderboard",
		Usage: "compute the leaderboard of a round",
		Flags: gameFlags(),
		Action: func(c *cli.Context) error {
			engine, err := newEngine(c)
			if err != nil {
				return err
			}
			g, err := loadGame(c.String("game"))
			if err != nil {
				return err
			}
			rows := engine.ComputeLeaderboard(g, c.String("format"))
			if c.Bool("json") {
				return writeJSON(c.App.Writer, rows)
			}

			fmt.Fprintf(c.App.Writer, "%s (%s)\n", g.Course.Name, engine.ResolveFormat(g, c.String("format")))
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "POS\tNAME\tTHRU\tGROSS\tNET\tPOINTS\tSTATUS")
			for _, r := range rows {
				if r.Waiting {
					fmt.Fprintf(tw, "\t%s\t\t\t\t\t\n", r.Status)
					continue
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
					r.Position, r.Name, r.Thru, r.TotalStrokes, r.TotalNet, r.Points, r.Status)
			}
			return tw.Flush()
		},
	}
}

func scorecardCommand() *cli.Command {
	return &cli.Command{
		Name:  "scorecard",
		Usage: "show one participant's hole by hole detail",
		Flags: append(gameFlags(), &cli.StringFlag{
			Name:     "participant",
			Aliases:  []string{"p"},
			Usage:    "player or team ID",
			Required: true,
		}),
		Action: func(c *cli.Context) error {
			engine, err := newEngine(c)
			if err != nil {
				return err
			}
			g, err := loadGame(c.String("game"))
			if err != nil {
				return err
			}
			id := c.String("participant")
			holes, ok := engine.Scorecard(g, c.String("format"), id)
			if !ok {
				return fmt.Errorf("no participant %q in %s", id, c.String("game"))
			}
			if c.Bool("json") {
				return writeJSON(c.App.Writer, holes)
			}

			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "HOLE\tPAR\tSI\tGROSS\tSTROKES\tNET\tPOINTS\tRESULT\tMATCH")
			for _, h := range holes {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%s\t%d\t%s\t%d\t%s\t%s\n",
					h.Hole, h.Par, h.StrokeIndex, optional(h.Gross), h.Allocated, optional(h.Net),
					h.Points, h.Outcome, h.MatchStatus)
			}
			return tw.Flush()
		},
	}
}

func formatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "formats",
		Usage: "list the supported formats and their aliases",
		Action: func(c *cli.Context) error {
			engine, err := newEngine(c)
			if err != nil {
				return err
			}
			aliases := engine.Formats().Aliases()
			tw := tabwriter.NewWriter(c.App.Writer, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "FORMAT\tCOMPARES\tGROUPING\tPLAYERS\tALIASES")
			for _, code := range scoring.AllFormats() {
				rules := scoring.RulesFor(code)
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
					code, rules.Comparable, rules.Grouping.Name(), fieldSize(rules), strings.Join(aliases[code], ", "))
			}
			return tw.Flush()
		},
	}
}

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "apply pending database migrations",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "dsn",
				Usage:    "PostgreSQL connection string",
				EnvVars:  []string{"DATABASE_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "directory holding the migration files",
				EnvVars: []string{"MIGRATIONS_PATH"},
				Value:   "migrations",
			},
		},
		Action: func(c *cli.Context) error {
			logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, nil))
			return database.RunMigrations(c.String("dsn"), c.String("dir"), logger)
		},
	}
}

func newEngine(c *cli.Context) (*scoring.Engine, error) {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(c.App.ErrWriter, &slog.HandlerOptions{Level: level}))

	formats := scoring.DefaultFormats
	if path := c.String("aliases"); path != "" {
		extra, err := config.LoadFormatAliases(path)
		if err != nil {
			return nil, err
		}
		if formats, err = scoring.NewFormatRegistry(extra); err != nil {
			return nil, err
		}
	}
	return scoring.NewEngine(scoring.WithFormats(formats), scoring.WithLogger(logger)), nil
}

func loadGame(path string) (scoring.Game, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scoring.Game{}, fmt.Errorf("read game: %w", err)
	}
	var g scoring.Game
	if err := yaml.Unmarshal(data, &g); err != nil {
		return scoring.Game{}, fmt.Errorf("parse game %s: %w", path, err)
	}
	return g, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func optional(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func fieldSize(r scoring.FormatRules) string {
	switch {
	case r.MinField == 0 && r.MaxField == 0:
		return "any"
	case r.MaxField == 0:
		return strconv.Itoa(r.MinField) + "+"
	case r.MinField == r.MaxField:
		return strconv.Itoa(r.MinField)
	}
	return fmt.Sprintf("%d-%d", r.MinField, r.MaxField)
}
