package main

import (
	"fmt"

	"github.com/bastiangx/unialias/pkg/config"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	resetConfig  bool
	maxLimit     int
	defaultLimit int
	recentFirst  bool
	outputSink   string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the config file",
	Long: `Without flags, prints the path of the active config file.
With flags, writes the given values to it.`,
	RunE: runConfig,
}

func init() {
	f := configCmd.Flags()
	f.BoolVar(&resetConfig, "reset", false, "Rewrite the default config.toml with default values")
	f.IntVar(&maxLimit, "max-limit", 0, "Set server.max_limit")
	f.IntVar(&defaultLimit, "default-limit", 0, "Set server.default_limit")
	f.BoolVar(&recentFirst, "recent-first", true, "Set suggest.recent_first")
	f.StringVar(&outputSink, "sink", "", "Set output.sink (stdout, clipboard, none)")
}

func runConfig(cmd *cobra.Command, args []string) error {
	if resetConfig {
		if err := config.RebuildConfigFile(); err != nil {
			return fmt.Errorf("failed to rebuild config: %w", err)
		}
		path, _ := config.GetDefaultConfigPath()
		log.Infof("Wrote default config to %s", path)
		return nil
	}

	cfg, usedPath, err := config.LoadConfigWithPriority(configPath)
	if err != nil {
		return err
	}
	active := config.GetActiveConfigPath(usedPath)

	flags := cmd.Flags()
	var (
		ml, dl *int
		rf     *bool
		sk     *string
	)
	if flags.Changed("max-limit") {
		ml = &maxLimit
	}
	if flags.Changed("default-limit") {
		dl = &defaultLimit
	}
	if flags.Changed("recent-first") {
		rf = &recentFirst
	}
	if flags.Changed("sink") {
		sk = &outputSink
	}
	if ml == nil && dl == nil && rf == nil && sk == nil {
		fmt.Println(active)
		return nil
	}

	if err := cfg.Update(active, ml, dl, rf, sk); err != nil {
		return fmt.Errorf("failed to update config: %w", err)
	}
	log.Infof("Updated %s", active)
	return nil
}
