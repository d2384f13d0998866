package main

import (
	"flag"
	"fmt"
	"os"

	"devtimesheet/internal/config"
	"devtimesheet/internal/storage"
	"devtimesheet/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	dataDir := flag.String("data-dir", "", "override the data directory")
	flag.Parse()

	var (
		cfg *config.Config
		err error
	)
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromDefaultPath()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}

	dir := cfg.ResolveDataDir()
	store, err := storage.NewFileStore(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data directory %s: %v\n", dir, err)
		os.Exit(1)
	}

	// External edits to the data files refresh the UI while it runs.
	watcher, err := storage.NewWatcher(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: file watching disabled: %v\n", err)
	} else {
		watcher.Start()
	}

	m := tui.NewModel(tui.ModelOptions{
		Config:  cfg,
		KV:      store,
		Watcher: watcher,
	})
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
