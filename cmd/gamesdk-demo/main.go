//go:build !js

// Command gamesdk-demo opens a window wired to the SDK: Space jumps, a
// click collects a coin, M toggles mute and Enter submits the score.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/urfave/cli/v2"

	"gamesdk"
)

func main() {
	app := &cli.App{
		Name:  "gamesdk-demo",
		Usage: "play preset sounds and submit a score from a desktop window",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "gamesdk.yaml"},
			&cli.StringFlag{Name: "player", Usage: "player name (default: guest name)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func run(c *cli.Context) error {
	level := slog.LevelInfo
	if c.Bool("verbose") {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg, err := gamesdk.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	win, err := gamesdk.NewWindow(gamesdk.WindowConfig{Title: "gamesdk demo", PauseOnBlur: true}, logger)
	if err != nil {
		return err
	}
	defer win.Close()

	sdk := gamesdk.Init(c.Context, cfg, gamesdk.WithLogger(logger), gamesdk.WithWindow(win))
	defer sdk.Destroy()

	d := &demo{sdk: sdk, logger: logger, player: c.String("player")}
	win.Input().OnKey(func(ev gamesdk.KeyEvent) { d.key(c.Context, ev) })
	win.Input().OnMouse(func(ev gamesdk.MouseEvent) {
		if ev.Action == glfw.Press {
			d.collect()
		}
	})
	return win.Run(c.Context, d.update, d.render)
}

type demo struct {
	sdk    *gamesdk.SDK
	logger *slog.Logger
	player string

	score float64
	flash float64
}

func (d *demo) key(ctx context.Context, ev gamesdk.KeyEvent) {
	if ev.Action != glfw.Press {
		return
	}
	switch ev.Key {
	case glfw.KeySpace:
		d.sdk.Audio.Play("jump")
		d.score++
	case glfw.KeyM:
		d.logger.Info("Mute toggled", "muted", d.sdk.Audio.ToggleMute())
	case glfw.KeyEnter:
		go d.submit(ctx, d.score)
	}
}

// submit runs off the render thread.
func (d *demo) submit(ctx context.Context, score float64) {
	res := d.sdk.Leaderboard.Submit(ctx, score, gamesdk.SubmitOptions{PlayerName: d.player})
	if !res.Success {
		d.sdk.Audio.Play("error")
		d.logger.Warn("Score not submitted", "error", res.Error)
		return
	}
	d.sdk.Audio.Play("levelup")
	d.logger.Info("Score submitted", "score", score, "rank", res.Rank)
	d.sdk.Leaderboard.Show(ctx)
}

func (d *demo) collect() {
	d.sdk.Audio.Play("coin")
	d.score += 10
	d.flash = 1
}

func (d *demo) update(dt float64) {
	d.flash -= dt * 3
	if d.flash < 0 {
		d.flash = 0
	}
}

func (d *demo) render() {
	f := float32(d.flash)
	gl.ClearColor(0.08+0.5*f, 0.08+0.4*f, 0.12, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
}
