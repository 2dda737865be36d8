package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/bastiangx/unialias/internal/cli"
	"github.com/bastiangx/unialias/internal/utils"
	"github.com/bastiangx/unialias/pkg/config"
	"github.com/bastiangx/unialias/pkg/dataset"
	"github.com/bastiangx/unialias/pkg/server"
	"github.com/bastiangx/unialias/pkg/sink"
	"github.com/bastiangx/unialias/pkg/suggest"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MessagePack IPC server on stdin/stdout (default)",
	RunE:  runServe,
}

var cliCmd = &cobra.Command{
	Use:   "cli",
	Short: "Try completions interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), true)
		if err != nil {
			return err
		}
		stop := a.watch(cmd.Context())
		defer stop()

		log.SetReportTimestamp(false)
		h := cli.NewInputHandler(a.index, os.Stdin, os.Stdout, a.config.Server.MaxInput, a.config.Server.DefaultLimit)
		return h.Start(cmd.Context())
	},
}

var treeCmd = &cobra.Command{
	Use:   "tree",
	Short: "Print the alias trie",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		return a.index.Render(os.Stdout)
	},
}

var pickCmd = &cobra.Command{
	Use:   "pick <alias>",
	Short: "Emit the character of an alias to the configured sink",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd.Context(), false)
		if err != nil {
			return err
		}
		_, err = a.index.Select(args[0])
		return err
	},
}

var datasetsCmd = &cobra.Command{
	Use:   "datasets [name]",
	Short: "List datasets, or show the help page of one",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDatasets,
}

// app is everything a command needs once config and datasets are loaded.
type app struct {
	config     *config.Config
	configPath string
	datasetDir string
	index      *suggest.Index
}

// setup loads the config, resolves the dataset directory and builds the
// index. Interactive modes start even when no dataset could be loaded.
func setup(ctx context.Context, interactive bool) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, usedPath, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return nil, err
	}

	pr, err := utils.NewPathResolver()
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		return nil, fmt.Errorf("failed to initialize path resolver: %w", err)
	}
	requested := dataDir
	if requested == "" {
		requested = cfg.Dataset.Dir
	}
	dir := pr.GetDatasetDir(requested)
	log.Debugf("Using dataset dir at: %s", dir)

	out, err := newSink(cfg.Output.Sink, interactive)
	if err != nil {
		return nil, err
	}

	index := suggest.NewIndex(dataset.NewLoader(dir, runtime.NumCPU()), out, suggest.Options{
		RecentFirst: cfg.Suggest.RecentFirst,
		MaxRecent:   cfg.Suggest.MaxRecent,
	})
	if _, err := index.Reload(ctx); err != nil {
		if !interactive {
			return nil, err
		}
		log.Warnf("Starting with an empty trie: %v", err)
	}

	return &app{
		config:     cfg,
		configPath: config.GetActiveConfigPath(usedPath),
		datasetDir: dir,
		index:      index,
	}, nil
}

// newSink builds the configured sink. Interactive modes already show the
// character they pick, and stdout carries the IPC stream, so there a
// stdout sink discards.
func newSink(kind string, interactive bool) (sink.Sink, error) {
	if interactive && (kind == "" || kind == sink.KindStdout) {
		return sink.Discard{}, nil
	}
	return sink.New(kind)
}

// watch starts the dataset watcher when enabled and returns its stop func.
func (a *app) watch(ctx context.Context) func() {
	if !a.config.Dataset.Watch || !utils.IsDatasetDir(a.datasetDir) {
		return func() {}
	}
	w, err := dataset.NewWatcher(a.datasetDir, a.config.Dataset.Debounce(), func(ctx context.Context) error {
		_, err := a.index.Reload(ctx)
		return err
	})
	if err != nil {
		log.Warnf("Dataset watching disabled: %v", err)
		return func() {}
	}
	if err := w.Start(ctx); err != nil {
		log.Warnf("Dataset watching disabled: %v", err)
		w.Stop()
		return func() {}
	}
	return w.Stop
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := setup(ctx, true)
	if err != nil {
		return err
	}
	stop := a.watch(ctx)
	defer stop()

	showStartupInfo(a)

	log.Debug("spawning IPC")
	srv := server.NewServer(a.index, a.config, a.datasetDir)
	if err := srv.Start(ctx); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}

func runDatasets(cmd *cobra.Command, args []string) error {
	a, err := setup(cmd.Context(), true)
	if err != nil {
		return err
	}
	infos, err := dataset.Catalog(a.datasetDir)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		if len(infos) == 0 {
			fmt.Printf("no datasets in %s\n", a.datasetDir)
			return nil
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("NAME", "SIZE", "HELP")
		for _, info := range infos {
			help := "-"
			if info.DocPath != "" {
				help = "yes"
			}
			t.Row(info.Name, humanize.Bytes(uint64(info.Size)), help)
		}
		fmt.Println(t.Render())
		return nil
	}

	info, ok := findDataset(infos, args[0])
	if !ok {
		return errors.New("no dataset named " + args[0])
	}
	doc, err := dataset.ReadDoc(info)
	if err != nil {
		return err
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		return fmt.Errorf("failed to create markdown renderer: %w", err)
	}
	out, err := renderer.Render(doc)
	if err != nil {
		return fmt.Errorf("failed to render help page: %w", err)
	}
	fmt.Print(out)
	return nil
}

// findDataset matches the exact name first, then a unique case-insensitive
// prefix, so "datasets gr" finds greek.
func findDataset(infos []dataset.Info, name string) (dataset.Info, bool) {
	var found []dataset.Info
	for _, info := range infos {
		if info.Name == name {
			return info, true
		}
		if utils.HasPrefixFold(info.Name, name) {
			found = append(found, info)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return dataset.Info{}, false
}
