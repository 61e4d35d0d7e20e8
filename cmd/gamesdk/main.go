package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"

	"gamesdk/internal/api"
	"gamesdk/internal/config"
	"gamesdk/internal/export"
	"gamesdk/internal/leaderboard"
	"gamesdk/internal/synth"
	"gamesdk/internal/types"
)

//go:embed docs
var docsFS embed.FS

func main() {
	app := &cli.App{
		Name:  "gamesdk",
		Usage: "register games, inspect leaderboards and render sounds",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: config.DefaultFile, Usage: "path to the config file"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
		},
		Commands: []*cli.Command{
			newRegisterCommand(),
			newScoresCommand(),
			newSubmitCommand(),
			newSynthCommand(),
			newPresetsCommand(),
			newDocsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(c *cli.Context) *slog.Logger {
	level := slog.LevelWarn
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if id := c.String("game"); id != "" {
		cfg.GameID = id
	}
	return cfg, nil
}

func newClient(c *cli.Context, cfg *config.Config) *api.Client {
	return api.NewClient(cfg.APIBaseURL,
		api.WithLogger(newLogger(c)),
		api.WithRateLimit(rate.Limit(cfg.Leaderboard.RateLimit), cfg.Leaderboard.RateBurst),
	)
}

func requireGameID(cfg *config.Config) error {
	if cfg.GameID == "" {
		return errors.New("no game id: run `gamesdk register` or pass --game")
	}
	return nil
}

var gameFlag = &cli.StringFlag{Name: "game", Aliases: []string{"g"}, Usage: "game id (overrides config)"}

func newRegisterCommand() *cli.Command {
	return &cli.Command{
		Name:  "register",
		Usage: "register a game and store its id in the config file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "description"},
			&cli.BoolFlag{Name: "force", Usage: "replace an existing game id"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if cfg.GameID != "" && !c.Bool("force") {
				return fmt.Errorf("config already has game id %s (use --force to replace it)", cfg.GameID)
			}
			id, err := newClient(c, cfg).RegisterGame(c.Context, api.RegisterRequest{
				Title:       c.String("title"),
				Description: c.String("description"),
			})
			if err != nil {
				return fmt.Errorf("register game: %w", err)
			}
			cfg.GameID = id
			if err := config.Save(c.String("config"), cfg); err != nil {
				return err
			}
			fmt.Printf("Registered %q as %s (saved to %s)\n", c.String("title"), id, c.String("config"))
			return nil
		},
	}
}

func newScoresCommand() *cli.Command {
	return &cli.Command{
		Name:  "scores",
		Usage: "print a leaderboard or export it to xlsx",
		Flags: []cli.Flag{
			gameFlag,
			&cli.StringFlag{Name: "timeframe", Value: string(types.DefaultTimeframe), Usage: "weekly or all_time"},
			&cli.IntFlag{Name: "limit", Value: 10},
			&cli.StringFlag{Name: "player", Usage: "highlight this player"},
			&cli.StringFlag{Name: "xlsx", Usage: "write the board to this .xlsx file"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := requireGameID(cfg); err != nil {
				return err
			}
			snap := newClient(c, cfg).GetScores(c.Context, cfg.GameID, api.ScoresOptions{
				Timeframe:  types.Timeframe(c.String("timeframe")),
				Limit:      c.Int("limit"),
				PlayerName: c.String("player"),
			})

			if path := c.String("xlsx"); path != "" {
				f, err := os.Create(path)
				if err != nil {
					return err
				}
				if err := export.WriteXLSX(f, snap); err != nil {
					f.Close()
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Printf("Wrote %d scores to %s\n", len(snap.Scores), path)
				return nil
			}

			r := leaderboard.TextRenderer{W: os.Stdout}
			return r.Render(c.Context, leaderboard.View{GameID: cfg.GameID, PlayerName: c.String("player"), Snapshot: snap})
		},
	}
}

func newSubmitCommand() *cli.Command {
	return &cli.Command{
		Name:  "submit",
		Usage: "submit a score directly to the API",
		Flags: []cli.Flag{
			gameFlag,
			&cli.Float64Flag{Name: "score", Required: true},
			&cli.StringFlag{Name: "player", Value: "cli"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := loadConfig(c)
			if err != nil {
				return err
			}
			if err := requireGameID(cfg); err != nil {
				return err
			}
			res := newClient(c, cfg).Submit(c.Context, cfg.GameID, c.Float64("score"), api.SubmitOptions{
				PlayerName: c.String("player"),
				Sort:       types.SortOrder(strings.ToUpper(cfg.Leaderboard.Sort)),
			})
			if !res.Success {
				return fmt.Errorf("submit failed: %s", res.Error)
			}
			fmt.Printf("Submitted: rank %d, score id %s\n", res.Rank, res.ScoreID)
			return nil
		},
	}
}

func newSynthCommand() *cli.Command {
	return &cli.Command{
		Name:  "synth",
		Usage: "render a preset or a sound definition to a .wav file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "preset", Usage: "preset name (see `gamesdk presets`)"},
			&cli.StringFlag{Name: "def", Usage: "yaml or json sound definition file"},
			&cli.IntFlag{Name: "rate", Value: synth.DefaultSampleRate},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default <name>.wav)"},
		},
		Action: func(c *cli.Context) error {
			in, name, err := synthInput(c.String("preset"), c.String("def"))
			if err != nil {
				return err
			}
			s := synth.New(synth.WithSampleRate(c.Int("rate")), synth.WithLogger(newLogger(c)))
			asset, err := s.Generate(c.Context, in)
			if err != nil {
				return err
			}
			out := c.String("out")
			if out == "" {
				out = name + ".wav"
			}
			if err := os.WriteFile(out, asset.WAV, 0o644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%s, %d bytes)\n", out, asset.Duration, len(asset.WAV))
			return nil
		},
	}
}

func synthInput(preset, defPath string) (synth.Input, string, error) {
	switch {
	case preset != "" && defPath != "":
		return synth.Input{}, "", errors.New("use --preset or --def, not both")
	case preset != "":
		return synth.PresetInput(preset), preset, nil
	case defPath != "":
		data, err := os.ReadFile(defPath)
		if err != nil {
			return synth.Input{}, "", err
		}
		var def synth.Definition
		if strings.EqualFold(filepath.Ext(defPath), ".json") {
			err = json.Unmarshal(data, &def)
		} else {
			err = yaml.Unmarshal(data, &def)
		}
		if err != nil {
			return synth.Input{}, "", fmt.Errorf("parse %s: %w", defPath, err)
		}
		return synth.CustomInput(def), strings.TrimSuffix(filepath.Base(defPath), filepath.Ext(defPath)), nil
	}
	return synth.Input{}, "", errors.New("pass --preset or --def")
}

func newPresetsCommand() *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "list built-in sound presets",
		Action: func(c *cli.Context) error {
			tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tWAVEFORM\tFREQUENCY\tDURATION\tENVELOPE")
			for _, name := range synth.Presets() {
				def, _ := synth.Preset(name)
				freqs := make([]string, len(def.Frequency))
				for i, f := range def.Frequency {
					freqs[i] = fmt.Sprintf("%g", f)
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%gs\t%s\n", name, def.Waveform, strings.Join(freqs, ","), def.Duration, def.Envelope)
			}
			return tw.Flush()
		},
	}
}

func newDocsCommand() *cli.Command {
	return &cli.Command{
		Name:  "docs",
		Usage: "write the integration guide into a directory",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "dir", Value: ".", Usage: "target directory"},
			&cli.BoolFlag{Name: "force", Usage: "overwrite existing files"},
		},
		Action: func(c *cli.Context) error {
			written, err := installDocs(c.Context, c.String("dir"), c.Bool("force"))
			if err != nil {
				return err
			}
			for _, p := range written {
				fmt.Println("Wrote", p)
			}
			return nil
		},
	}
}

// installDocs copies the embedded guide into dir. Existing files are kept
// unless force is set.
func installDocs(ctx context.Context, dir string, force bool) ([]string, error) {
	var names []string
	err := fs.WalkDir(docsFS, "docs", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		names = append(names, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(names)

	var written []string
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		target := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(name, "docs/")))
		if _, err := os.Stat(target); err == nil && !force {
			return written, fmt.Errorf("%s exists (use --force to overwrite)", target)
		}
		data, err := docsFS.ReadFile(name)
		if err != nil {
			return written, err
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return written, err
		}
		if err := os.WriteFile(target, data, 0o644); err != nil {
			return written, err
		}
		written = append(written, target)
	}
	return written, nil
}
