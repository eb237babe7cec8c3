// Copyright 2025 The WordServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the wordfix autocorrect server and CLI [DBG] application.

Note: This is a BETA release. APIs and functionality may rapidly change.

wordfix corrects misspelled words against per-language dictionaries. It
combines edit distance, QWERTY key proximity, the language of the
surrounding words and an English contraction table, and keeps a personal
dictionary of custom words that can be backed up to a zip archive.

# Usage

Start the server with default settings:

	wordfix

Use a directory of <lang>.txt word lists and enable debug mode:

	wordfix -data /path/to/lists -d

Run in CLI mode for interactive testing:

	wordfix -c -limit 10

Without -data (or with a directory holding no lists) the built-in English
and Indonesian lists are used.

# Configuration

Runtime configuration is read from a TOML (or YAML, by extension) file:

	[engine]
	max_results = 5
	max_edit_distance = 2
	context_window = 5
	min_confidence = 0.5

	[dict]
	data_dir = ""
	languages = ["en", "id"]
	active_languages = ["en"]

	[storage]
	backend = "file"   # or "sqlite"
	path = ""

	[server]
	max_limit = 64
	max_token = 60

The config file is created with defaults if it doesn't exist. In server
mode the file is watched and limits and active languages are applied
without restart.

# IPC Protocol

The server communicates via MessagePack over stdin/stdout; see package
server for the message layout.

	{"id": "req1", "t": "helo", "ctx": ["say"], "l": 5}
	{"id": "req1", "status": "ok", "s": [{"w": "hello", "r": 1, "cf": 0.8, "src": "dictionary"}], "c": 1, "t": 145}

# Command Line Flags

	-config string
	    Path to a config file (default: user config dir)
	-data string
	    Directory containing <lang>.txt word lists
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-limit int
	    Number of suggestions to return (default from config)
	-version
	    Show version and exit
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/wordfix/internal/cli"
	"github.com/bastiangx/wordfix/internal/logger"
	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/bastiangx/wordfix/pkg/backup"
	"github.com/bastiangx/wordfix/pkg/config"
	"github.com/bastiangx/wordfix/pkg/detect"
	"github.com/bastiangx/wordfix/pkg/dictionary"
	"github.com/bastiangx/wordfix/pkg/personal"
	"github.com/bastiangx/wordfix/pkg/server"
	"github.com/bastiangx/wordfix/pkg/storage"
	"github.com/bastiangx/wordfix/pkg/suggest"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

const (
	Version = "0.1.0-beta"
	AppName = "wordfix"
	gh      = "https://github.com/bastiangx/wordfix"
)

// main wires the packages together and picks server or CLI mode.
// It does not implement logic for them and only manages the flow.
func main() {
	showVersion := flag.Bool("version", false, "Show current version")
	configFile := flag.String("config", "", "Path to config file (TOML, or YAML by extension)")
	dataDir := flag.String("data", "", "Directory containing <lang>.txt word lists (default: built-in lists)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	limit := flag.Int("limit", 0, "Number of suggestions to return (default from config)")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *configFile, *dataDir, *cliMode, *limit); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configFile, dataDir string, cliMode bool, limit int) error {
	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		return fmt.Errorf("failed to initialize path resolver: %w", err)
	}

	cfg, configPath, err := config.LoadConfigWithPriority(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(configPath))

	if dataDir == "" {
		dataDir = cfg.Dict.DataDir
	}
	var source dictionary.Source = dictionary.NewEmbeddedSource()
	if resolved := pathResolver.GetDataDir(dataDir); resolved != "" {
		log.Debugf("Using data dir at: %s", resolved)
		source = dictionary.NewDirSource(resolved)
	} else {
		log.Debug("Using built-in word lists")
	}

	store := dictionary.NewStore(source, dictionary.WithActiveLanguages(cfg.Dict.ActiveLanguages...))
	if err := <-store.LoadAsync(ctx, cfg.Dict.Languages...); err != nil {
		return fmt.Errorf("failed to load dictionaries: %w", err)
	}

	storagePath := cfg.Storage.Path
	if storagePath == "" {
		storagePath = pathResolver.GetCustomWordsPath(cfg.Storage.Backend)
	}
	backing, err := storage.Open(cfg.Storage.Backend, storagePath)
	if err != nil {
		return fmt.Errorf("failed to open custom word storage: %w", err)
	}
	defer backing.Close()
	log.Debugf("Custom words: %s backend at %s", cfg.Storage.Backend, storagePath)

	manager := personal.New(store, backing)
	if err := manager.Restore(ctx); err != nil {
		return err
	}
	codec := backup.New(manager, cfg.Backup.AppVersion)

	engine := suggest.NewEngine(store, detect.New(store, cfg.Engine.ContextWindow), suggest.Options{
		MaxResults:      cfg.Engine.MaxResults,
		MaxEditDistance: cfg.Engine.MaxEditDistance,
		MinConfidence:   cfg.Engine.MinConfidence,
		CacheSize:       cfg.Engine.CacheSize,
	})

	if limit <= 0 {
		limit = cfg.Engine.MaxResults
	}

	// CLI would be mainly used for testing and dbg purposes.
	if cliMode {
		log.SetReportTimestamp(false)
		defaultLang := "en"
		if len(cfg.Dict.ActiveLanguages) > 0 {
			defaultLang = cfg.Dict.ActiveLanguages[0]
		}
		out := logger.New("")
		handler := cli.NewInputHandler(engine, manager, codec, out, limit, cfg.Server.MaxToken, defaultLang)
		return untilDone(ctx, func() error { return handler.Start(ctx, os.Stdin) })
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(engine, manager, codec, cfg.Server)
	if configPath != "" {
		watcher := config.NewWatcher(configPath, cfg)
		watcher.OnChange(srv.ApplyConfig)
		if err := watcher.Start(); err != nil {
			log.Warnf("Config hot reload disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	showStartupInfo(store, pathResolver)
	return untilDone(ctx, func() error { return srv.Serve(ctx, os.Stdin, os.Stdout) })
}

// untilDone runs loop until it returns or ctx is done. The loops block on
// stdin, so on a signal the reader is abandoned and run's deferred closes
// still happen before the process exits.
func untilDone(ctx context.Context, loop func() error) error {
	done := make(chan error, 1)
	go func() {
		done <- loop()
	}()
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		return nil
	}
}

func printVersion() {
	versionLog := logger.NewWithConfig("", log.InfoLevel, false, false, log.TextFormatter)

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	versionLog.SetStyles(styles)

	versionLog.Print("")
	versionLog.Print("[ wordfix ] Fixes your typos as you type!")
	versionLog.Print("", "version", Version)
	versionLog.Print("")
	versionLog.Print("use -h or --help to see available options")
	versionLog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(store *dictionary.Store, pr *utils.PathResolver) {
	for k, v := range pr.GetRuntimeInfo() {
		log.Debugf("%s: %s", k, v)
	}
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	stats := store.Stats()
	println("===========")
	println("  wordfix  ")
	println("===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("languages: %v (active %v)", store.Languages(), store.ActiveLanguages())
	log.Infof("words: %d built-in, %d custom", stats["builtinWords"], stats["customWords"])
	log.Info("status: ready")
	println("===========")
	println("Press Ctrl+C to exit")
}
