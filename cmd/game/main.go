package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/term"

	"towerstack/internal/config"
	"towerstack/internal/game"
	"towerstack/internal/score"
)

func main() {
	tuning, err := config.LoadTuning(config.GetEnv("TOWERSTACK_TUNING", "tuning.yaml"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load tuning: %v\n", err)
		os.Exit(1)
	}

	// Local scores live under the user's config dir; the game runs
	// without a leaderboard when the store cannot be opened.
	var scores *score.Store
	if dir, err := os.UserConfigDir(); err == nil {
		scores, _ = score.Open(filepath.Join(dir, "towerstack", "scores.db"))
	}
	defer scores.Close()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	session := game.NewSession(tuning)
	loop := game.NewLoop(session, bufio.NewReader(os.Stdin), os.Stdout, game.Options{
		Username: config.GetEnv("USER", "local"),
		Scores:   scores,
	})
	if err := loop.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
