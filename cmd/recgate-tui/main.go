package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"recgate/internal/client"
	"recgate/internal/tui"
)

func main() {
	_ = godotenv.Load()

	addr := os.Getenv("RECGATE_ADDR")
	if addr == "" {
		addr = "http://localhost:8080"
	}
	flag.StringVar(&addr, "addr", addr, "Base URL of a running recgate server")
	flag.Parse()

	c := client.New(addr, 15*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := c.Health(ctx)
	cancel()
	if err != nil {
		log.Fatalf("cannot reach gateway at %s: %v", addr, err)
	}

	m := tui.New(c)
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}
