package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cottand/dltype/dltype"
	"github.com/cottand/dltype/frontend/infer"
	"github.com/cottand/dltype/internal/log"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// environment variables that provide defaults for flags that are not set
const (
	envLogLevel      = "DLTYPE_LOG_LEVEL"
	envMaxIterations = "DLTYPE_MAX_ITERATIONS"
)

// analysisFlags are the flags shared by every command that analyses a program
type analysisFlags struct {
	logLevel      int
	maxIterations int
	debugReport   bool
	noColor       bool
	envFile       string
}

func addAnalysisFlags(c *cobra.Command) *analysisFlags {
	flags := &analysisFlags{}
	c.Flags().IntVarP(&flags.logLevel, "log-level", "l", int(slog.LevelError), "log level, or $"+envLogLevel)
	c.Flags().IntVar(&flags.maxIterations, "max-iterations", 0, "maximum iterations of type analysis, or $"+envMaxIterations)
	c.Flags().BoolVar(&flags.debugReport, "debug-report", false, "print the full analysis report, with the constraint solver trace")
	c.Flags().BoolVar(&flags.noColor, "no-color", false, "disable coloured output")
	c.Flags().StringVar(&flags.envFile, "env-file", ".env", "file to read environment defaults from, if it exists")
	return flags
}

// loadEnv reads path into the environment without overriding variables that are already set
func loadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// config resolves the analysis configuration of c, where flags that were not
// given on the command line fall back to the environment
func (flags *analysisFlags) config(c *cobra.Command) (infer.Config, error) {
	if err := loadEnv(flags.envFile); err != nil {
		return infer.Config{}, err
	}

	level := slog.Level(flags.logLevel)
	if value, ok := os.LookupEnv(envLogLevel); ok && !c.Flags().Changed("log-level") {
		if err := level.UnmarshalText([]byte(value)); err != nil {
			return infer.Config{}, fmt.Errorf("parse $%s: %w", envLogLevel, err)
		}
	}
	log.SetLevel(level)

	maxIterations := flags.maxIterations
	if value, ok := os.LookupEnv(envMaxIterations); ok && !c.Flags().Changed("max-iterations") {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return infer.Config{}, fmt.Errorf("parse $%s: %w", envMaxIterations, err)
		}
		maxIterations = parsed
	}

	return infer.Config{
		Debug:         flags.debugReport,
		MaxIterations: maxIterations,
		Logger:        log.DefaultLogger,
	}, nil
}

type readFileDirFS interface {
	fs.ReadFileFS
	fs.ReadDirFS
}

// loadTarget loads the program at target, which is either a YAML file
// or a folder containing a single one
func loadTarget(target string, config infer.Config) (*dltype.Unit, error) {
	target, err := filepath.Abs(target)
	if err != nil {
		return nil, fmt.Errorf("could not get absolute path of target: %w", err)
	}

	stat, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("could not stat target: %w", err)
	}

	rootDir, file := target, ""
	if !stat.IsDir() {
		rootDir, file = filepath.Dir(target), filepath.Base(target)
	}
	folderFS, ok := os.DirFS(rootDir).(readFileDirFS)
	if !ok {
		return nil, fmt.Errorf("cannot list files in %s", rootDir)
	}

	return dltype.LoadUnit(folderFS, dltype.UnitLoadSettings{
		File:   file,
		Config: config,
	})
}
