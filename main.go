package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/selahfocus/selah/internal/backend"
	"github.com/selahfocus/selah/internal/callback"
	"github.com/selahfocus/selah/internal/config"
	"github.com/selahfocus/selah/internal/store"
	"github.com/selahfocus/selah/internal/tui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if cfg.Debug {
		f, err := tea.LogToFile("selah-debug.log", "selah")
		if err != nil {
			fmt.Fprintf(os.Stderr, "error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	} else {
		log.SetOutput(os.Stderr)
	}

	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	var client backend.Client
	var cbServer *callback.Server
	if cfg.BackendConfigured() {
		remote := backend.NewRemoteClient(cfg.BackendURL, cfg.BackendKey)
		if cached, err := s.LoadAuthSession(); err != nil {
			log.Printf("load cached session: %v", err)
		} else if cached != nil {
			remote.SetSession(cached)
		}
		client = remote

		if cfg.CallbackAddr != "" {
			cbServer = callback.NewServer(remote)
			go func() {
				if err := cbServer.Start(cfg.CallbackAddr); err != nil {
					log.Printf("callback server: %v", err)
				}
			}()
		}
	} else {
		client = backend.NewStubClient()
	}

	var results <-chan callback.Result
	if cbServer != nil {
		results = cbServer.Results()
	}

	app := tui.NewApp(client, s, results)
	p := tea.NewProgram(app, tea.WithAltScreen())

	_, runErr := p.Run()

	if cbServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cbServer.Shutdown(ctx); err != nil {
			log.Printf("callback shutdown: %v", err)
		}
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", runErr)
		os.Exit(1)
	}
}
