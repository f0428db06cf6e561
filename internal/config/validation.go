package config

import (
	"errors"
	"fmt"

	"github.com/mj1618/desktop-fences/internal/model"
)

// Validate checks cfg for values the application cannot run with.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.DataDir == "" {
		errs = append(errs, errors.New("data_dir must be set"))
	}
	if cfg.StagingDirName == "" {
		errs = append(errs, errors.New("staging_dir_name must be set"))
	}
	if cfg.Reconcile.Debounce <= 0 {
		errs = append(errs, fmt.Errorf("reconcile.debounce must be positive, got %s", cfg.Reconcile.Debounce))
	}
	switch cfg.Reconcile.OrphanOrder {
	case OrphanOrderLexical, OrphanOrderEnumeration:
	default:
		errs = append(errs, fmt.Errorf("reconcile.orphan_order must be %q or %q, got %q",
			OrphanOrderLexical, OrphanOrderEnumeration, cfg.Reconcile.OrphanOrder))
	}
	if cfg.Gesture.MinDragSize < 0 {
		errs = append(errs, fmt.Errorf("gesture.min_drag_size must not be negative, got %d", cfg.Gesture.MinDragSize))
	}
	if cfg.Gesture.QueueSize <= 0 {
		errs = append(errs, fmt.Errorf("gesture.queue_size must be positive, got %d", cfg.Gesture.QueueSize))
	}
	switch cfg.Gesture.DragModifier {
	case "alt", "ctrl", "shift":
	default:
		errs = append(errs, fmt.Errorf("gesture.drag_modifier must be alt, ctrl or shift, got %q", cfg.Gesture.DragModifier))
	}
	if _, err := model.ParseRect(cfg.Fence.DefaultBounds); err != nil {
		errs = append(errs, fmt.Errorf("fence.default_bounds: %w", err))
	}
	switch cfg.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be console or json, got %q", cfg.Log.Format))
	}

	return errors.Join(errs...)
}
