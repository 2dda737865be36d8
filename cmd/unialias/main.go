// Copyright 2025 The unialias Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the unialias completion server and its CLI tools.

unialias expands short ASCII aliases into Unicode characters. Aliases come
from CSV datasets and live in a compressed trie; typing part of an alias
lists every alias below the longest prefix the trie knows, and picking one
emits its character.

# Usage

Start the MessagePack IPC server used by the desktop shell:

	unialias

Try completions interactively:

	unialias cli

Print the trie, list datasets, or emit one character from a script:

	unialias tree
	unialias datasets greek
	unialias pick alpha

# Datasets

A dataset is a CSV file of alias,character lines in the dataset directory,
by default <config dir>/dataset. Lines starting with '#' are comments. A
Markdown file with the same base name is shown by "unialias datasets <name>".
The server reloads the datasets when a file changes.

# Configuration

The config file is created with defaults on first run:

	[server]
	max_limit = 64
	default_limit = 5
	max_input = 60

	[dataset]
	dir = ""
	watch = true
	debounce_ms = 500

	[suggest]
	recent_first = true
	max_recent = 64

	[output]
	sink = "stdout"

	[shell]
	hotkey = "alt+shift+u"

See package server for the IPC protocol.
*/
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bastiangx/unialias/internal/logger"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	Version = "0.3.0"
	AppName = "unialias"
	gh      = "https://github.com/bastiangx/unialias"
)

var (
	// Global flags
	configPath string
	dataDir    string
	debugMode  bool
)

var rootCmd = &cobra.Command{
	Use:   AppName,
	Short: "Expand short ASCII aliases into Unicode characters",
	Long: `unialias completes ASCII aliases such as "alpha" or "inf" into the
characters they stand for. Run without arguments to start the IPC server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Setup(debugMode)
	},
	RunE: runServe,
}

// sigHandler is a simple handler for OS signals to exit normally.
func sigHandler() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		fmt.Fprintf(os.Stderr, "\nExiting...\n")
		os.Exit(0)
	}()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.toml")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "", "Directory containing the dataset CSV files")
	rootCmd.PersistentFlags().BoolVarP(&debugMode, "debug", "d", false, "Toggle debug mode")

	rootCmd.AddCommand(serveCmd, cliCmd, treeCmd, datasetsCmd, pickCmd, configCmd, versionCmd)
}

func main() {
	sigHandler()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show current version",
	Run: func(cmd *cobra.Command, args []string) {
		showVersion()
	},
}

func showVersion() {
	vlog := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	vlog.SetStyles(styles)

	vlog.Print("")
	vlog.Print("[ unialias ] Unicode characters from short aliases")
	vlog.Print("", "version", Version)
	vlog.Print("")
	vlog.Print("use -h or --help to see available options")
	vlog.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(a *app) {
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)
	defer log.SetLevel(currentLevel)

	stats := a.index.Stats()
	fmt.Fprintln(os.Stderr, "==========")
	fmt.Fprintln(os.Stderr, " unialias ")
	fmt.Fprintln(os.Stderr, "==========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", os.Getpid())
	log.Infof("config: ( %s )", a.configPath)
	log.Infof("dataset dir: ( %s )", a.datasetDir)
	log.Infof("aliases: %d in %d datasets", stats["aliases"], stats["datasets"])
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "==========")
}
