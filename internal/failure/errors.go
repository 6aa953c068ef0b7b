package failure

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"syscall"
)

var (
	ErrNotFound         = errors.New("path not found")
	ErrPermission       = errors.New("permission denied")
	ErrCollision        = errors.New("destination collision")
	ErrCrossDevice      = errors.New("cross-device move failure")
	ErrCategoryConflict = errors.New("category folder conflict")
	ErrValidation       = errors.New("validation error")
	ErrConfiguration    = errors.New("configuration error")
	ErrLocked           = errors.New("root locked by another run")
	ErrTransient        = errors.New("transient failure")
)

// Wrap builds an error message that includes stage context while tagging it with
// the provided marker for later classification. The marker should be one of the
// exported sentinel errors above; a nil marker is derived from err via Classify.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = Classify(err)
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Classify maps a raw filesystem error onto a marker. Errors already carrying a
// marker keep it.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	for _, marker := range markers {
		if errors.Is(err, marker) {
			return marker
		}
	}
	switch {
	case errors.Is(err, syscall.EXDEV):
		return ErrCrossDevice
	case errors.Is(err, fs.ErrNotExist):
		return ErrNotFound
	case errors.Is(err, fs.ErrPermission):
		return ErrPermission
	case errors.Is(err, fs.ErrExist), errors.Is(err, syscall.ENOTEMPTY), errors.Is(err, syscall.EISDIR), errors.Is(err, syscall.ENOTDIR):
		return ErrCollision
	default:
		return ErrTransient
	}
}

var markers = []error{
	ErrNotFound,
	ErrPermission,
	ErrCollision,
	ErrCrossDevice,
	ErrCategoryConflict,
	ErrValidation,
	ErrConfiguration,
	ErrLocked,
	ErrTransient,
}

// Exit codes returned by the CLI.
const (
	ExitOK            = 0
	ExitGeneric       = 1
	ExitConfiguration = 2
	ExitNotFound      = 3
	ExitPermission    = 4
	ExitCollision     = 5
	ExitLocked        = 6
	ExitCrossDevice   = 7
)

// ExitCode maps an error to the process exit status.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	switch Classify(err) {
	case ErrConfiguration, ErrValidation:
		return ExitConfiguration
	case ErrNotFound:
		return ExitNotFound
	case ErrPermission:
		return ExitPermission
	case ErrCollision, ErrCategoryConflict:
		return ExitCollision
	case ErrLocked:
		return ExitLocked
	case ErrCrossDevice:
		return ExitCrossDevice
	default:
		return ExitGeneric
	}
}

// Reason returns a short snake_case label for the marker carried by err,
// suitable for journal rows and log fields.
func Reason(err error) string {
	switch Classify(err) {
	case nil:
		return ""
	case ErrNotFound:
		return "not_found"
	case ErrPermission:
		return "permission_denied"
	case ErrCollision:
		return "destination_collision"
	case ErrCrossDevice:
		return "cross_device"
	case ErrCategoryConflict:
		return "category_conflict"
	case ErrValidation:
		return "validation"
	case ErrConfiguration:
		return "configuration"
	case ErrLocked:
		return "locked"
	default:
		return "transient"
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "organizer failure"
	}
	return strings.Join(parts, ": ")
}
