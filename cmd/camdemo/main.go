package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/notbadgun/orthocam"
)

func main() {
	configPath := flag.String("config", "", "camera config file (yaml), embedded default when empty")
	scriptPath := flag.String("script", "", "director script (tengo), embedded default when empty")
	watch := flag.Bool("watch", false, "reload config and script when they change on disk")
	verbose := flag.Bool("v", false, "log camera debug output")
	flag.Parse()

	if *verbose {
		orthocam.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	game := NewGame(*configPath, *scriptPath, *watch)

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(game.display.Width, game.display.Height)
	ebiten.SetWindowTitle("camdemo")

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
