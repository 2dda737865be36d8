package utils

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/charmbracelet/log"
)

const AppName = "unialias"

// PathResolver finds the config and dataset directories for the binary
type PathResolver struct {
	executableDir string
	homeDir       string
	configDir     string
}

// NewPathResolver creates a new path resolver that determines the executable location
func NewPathResolver() (*PathResolver, error) {
	execDir, err := GetExecutableDir()
	if err != nil {
		return nil, err
	}
	if resolved, err := filepath.EvalSymlinks(execDir); err == nil {
		execDir = resolved
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Warnf("Could not determine home directory: %v", err)
		homeDir = os.TempDir()
	}

	pr := &PathResolver{
		executableDir: execDir,
		homeDir:       homeDir,
		configDir:     UserConfigDir(homeDir),
	}
	log.Debugf("PathResolver initialized: execDir=%s, configDir=%s", execDir, pr.configDir)
	return pr, nil
}

// UserConfigDir returns the platform config directory for the app
func UserConfigDir(homeDir string) string {
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(homeDir, ".config", AppName)
	case "linux":
		if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
			return filepath.Join(configHome, AppName)
		}
		return filepath.Join(homeDir, ".config", AppName)
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, AppName)
		}
		return filepath.Join(homeDir, "AppData", "Roaming", AppName)
	default:
		return filepath.Join(homeDir, "."+AppName)
	}
}

// GetDatasetDir resolves the directory holding the dataset CSV files.
// It tries, in order:
// 1. The user-specified path, as given and relative to the executable
// 2. <config dir>/dataset
// 3. <executable dir>/dataset
// When none holds a dataset, the config location is returned so it can be
// created and filled by the user.
func (pr *PathResolver) GetDatasetDir(userSpecifiedPath string) string {
	for _, path := range pr.datasetCandidates(userSpecifiedPath) {
		if IsDatasetDir(path) {
			log.Debugf("Found dataset directory: %s", path)
			return path
		}
		log.Debugf("Dataset directory candidate not valid: %s", path)
	}
	if userSpecifiedPath != "" {
		return GetAbsolutePath(userSpecifiedPath)
	}
	return filepath.Join(pr.configDir, "dataset")
}

func (pr *PathResolver) datasetCandidates(userSpecifiedPath string) []string {
	var candidates []string
	if userSpecifiedPath != "" {
		candidates = append(candidates, GetAbsolutePath(userSpecifiedPath))
		if !filepath.IsAbs(userSpecifiedPath) {
			candidates = append(candidates, filepath.Join(pr.executableDir, userSpecifiedPath))
		}
	}
	return append(candidates,
		filepath.Join(pr.configDir, "dataset"),
		filepath.Join(pr.executableDir, "dataset"),
	)
}

// IsDatasetDir reports whether path is a directory with at least one CSV file
func IsDatasetDir(path string) bool {
	if stat, err := os.Stat(path); err != nil || !stat.IsDir() {
		return false
	}
	matches, err := filepath.Glob(filepath.Join(path, "*.csv"))
	return err == nil && len(matches) > 0
}

// GetConfigPath returns the full path for a config file
// It ensures the config directory exists and handles read-only filesystem issues
func (pr *PathResolver) GetConfigPath(filename string) string {
	if result := CheckDirStatus(pr.configDir); result.Writable {
		return filepath.Join(pr.configDir, filename)
	}

	fallbackDirs := []string{
		filepath.Join(pr.homeDir, "."+AppName),
		filepath.Join(os.TempDir(), AppName),
		pr.executableDir,
	}
	for _, dir := range fallbackDirs {
		if result := CheckDirStatus(dir); result.Writable {
			path := filepath.Join(dir, filename)
			log.Warnf("Using fallback config location: %s", path)
			return path
		}
	}

	tempPath := filepath.Join(os.TempDir(), filename)
	log.Warnf("Using temporary config file: %s", tempPath)
	return tempPath
}

func (pr *PathResolver) GetConfigDir() string {
	return pr.configDir
}

func (pr *PathResolver) GetExecutableDir() string {
	return pr.executableDir
}
