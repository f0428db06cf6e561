package staging

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// Engine hides desktop entries by moving them into the staging directory and
// restores them on demand. Staging is cosmetic, so every filesystem error is
// logged and swallowed; callers never see one.
type Engine struct {
	paths Paths
	log   zerolog.Logger
}

// NewEngine creates a staging engine over paths.
func NewEngine(paths Paths, log zerolog.Logger) *Engine {
	return &Engine{paths: paths, log: log}
}

// Paths returns the path resolver the engine operates on.
func (e *Engine) Paths() Paths {
	return e.paths
}

// EffectivePath returns the current on-disk location of orig.
func (e *Engine) EffectivePath(orig string) string {
	return e.paths.EffectivePath(orig)
}

// Stage moves orig into the staging directory.
//
// If a staged copy already exists and orig exists too, orig is a duplicate
// (a sync client or installer recreated it) and is deleted; the staged copy
// stays authoritative. If only the staged copy exists, Stage is a no-op.
func (e *Engine) Stage(orig string) {
	if err := os.MkdirAll(e.paths.Dir(), 0o755); err != nil {
		e.log.Warn().Err(err).Str("dir", e.paths.Dir()).Msg("cannot create staging directory")
		return
	}
	staged := e.paths.StagedPath(orig)
	stagedExists := Exists(staged)
	origExists := Exists(orig)

	switch {
	case stagedExists && origExists:
		if err := os.RemoveAll(orig); err != nil {
			e.log.Warn().Err(err).Str("path", orig).Msg("cannot remove duplicate of staged file")
			return
		}
		e.log.Info().Str("path", orig).Msg("removed duplicate of staged file")
	case stagedExists:
		// already staged
	case !origExists:
		e.log.Debug().Str("path", orig).Msg("nothing to stage")
	default:
		e.move(orig, staged)
	}
}

// Unstage moves the staged copy of orig back to orig. A missing staged copy
// is a no-op, and an existing orig is never overwritten.
func (e *Engine) Unstage(orig string) {
	staged := e.paths.StagedPath(orig)
	if !Exists(staged) {
		return
	}
	if Exists(orig) {
		e.log.Warn().Str("path", orig).Msg("original exists, leaving staged copy in place")
		return
	}
	if err := os.MkdirAll(filepath.Dir(orig), 0o755); err != nil {
		e.log.Warn().Err(err).Str("path", orig).Msg("cannot recreate original directory")
		return
	}
	e.move(staged, orig)
}

// StageAll stages every path in paths.
func (e *Engine) StageAll(paths []string) {
	for _, p := range paths {
		e.Stage(p)
	}
}

// UnstageAll unstages every path in paths.
func (e *Engine) UnstageAll(paths []string) {
	for _, p := range paths {
		e.Unstage(p)
	}
}

func (e *Engine) move(from, to string) {
	err := os.Rename(from, to)
	switch {
	case err == nil:
		e.log.Debug().Str("from", from).Str("to", to).Msg("moved")
	case errors.Is(err, fs.ErrNotExist):
		// source vanished between the check and the move
		e.log.Debug().Str("from", from).Msg("source vanished before move")
	default:
		e.log.Warn().Err(err).Str("from", from).Str("to", to).Msg("move failed")
	}
}
