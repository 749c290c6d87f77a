package main

import (
	"fmt"
	"io"
	"os"

	"stock-assistant/internal/config"
	"stock-assistant/internal/conversation"
	"stock-assistant/internal/dataset"
	"stock-assistant/internal/logging"
	"stock-assistant/internal/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
)

const logFileName = "stock-assistant.log"

var (
	loadEnvFunc     = godotenv.Load
	loadConfigFunc  = config.Load
	loadDatasetFunc = dataset.Load
	openLogFunc     = func(name string) (io.WriteCloser, error) {
		return os.OpenFile(name, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	}
	runProgramFunc = func(m tea.Model) error {
		_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	}
	exitFunc = os.Exit
)

func main() {
	_ = loadEnvFunc()
	cfg := loadConfigFunc()

	// The screen belongs to the program; logs go to a file.
	out, err := openLogFunc(logFileName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "opening log file: %v\n", err)
		exitFunc(1)
		return
	}
	defer out.Close()
	logger := logging.New(out, cfg.LogLevel)

	var catalog conversation.Catalog
	if c, err := loadDatasetFunc(cfg.DatasetPath); err != nil {
		logger.Error("failed to load dataset", "path", cfg.DatasetPath, "err", err)
	} else {
		catalog = c
	}

	m := tui.NewAppModel(tui.Services{
		Catalog:  catalog,
		Debounce: cfg.Debounce,
		Typing:   cfg.TypingDelay,
		Logger:   logger,
	})
	if err := runProgramFunc(m); err != nil {
		logger.Error("tui exited with error", "err", err)
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		exitFunc(1)
	}
}
