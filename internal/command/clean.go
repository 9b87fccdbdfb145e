package command

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/adhocteam/tern/internal/srcfile"
)

// Clean removes the compiled units under root.
func Clean(root string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("Cleaning", "root", root)
	for file, err := range srcfile.Find(root, srcfile.Output) {
		if err != nil {
			return fmt.Errorf("finding compiled units: %w", err)
		}
		logger.Info("Removing compiled unit", "file", file)
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("removing %q: %w", file, err)
		}
	}
	return nil
}
