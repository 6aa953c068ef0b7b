package organizer

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"tidydir/internal/failure"
	"tidydir/internal/logging"
)

// validateRoot returns root as an absolute, cleaned path. Existence is not
// checked here; a missing root surfaces when the directory is read.
func validateRoot(root string) (string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return "", failure.Wrap(failure.ErrValidation, "organize", "validate inputs",
			"Root directory is required", nil)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", failure.Wrap(failure.ErrValidation, "organize", "validate inputs",
			fmt.Sprintf("Cannot resolve root %q", root), err)
	}
	return abs, nil
}

// verifyMoved confirms that dst now exists and src is gone. It catches movers
// that report success without relocating the file.
func verifyMoved(src, dst string, logger *slog.Logger) error {
	if _, err := os.Lstat(dst); err != nil {
		logMoveValidationFailure(logger, src, dst, "destination missing after move")
		return failure.Wrap(failure.ErrValidation, "organize", "verify move",
			fmt.Sprintf("Destination %q missing after move", dst), err)
	}
	if _, err := os.Lstat(src); err == nil {
		logMoveValidationFailure(logger, src, dst, "source still present after move")
		return failure.Wrap(failure.ErrValidation, "organize", "verify move",
			fmt.Sprintf("Source %q still present after move", src), nil)
	}
	return nil
}

func logMoveValidationFailure(logger *slog.Logger, src, dst, hint string) {
	if logger == nil {
		return
	}
	logger.Error("move validation failed",
		logging.String("source", src),
		logging.String("destination", dst),
		logging.String(logging.FieldEventType, "move_validation_failed"),
		logging.String(logging.FieldErrorHint, hint),
	)
}
