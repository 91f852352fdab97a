package press

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"git.home.luguber.info/inful/mdpress/internal/logfields"
	"git.home.luguber.info/inful/mdpress/internal/metrics"
	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

// Build runs one full build: destination validation and reset, preparation,
// generation (timed), and best-effort asset copying. It returns the
// destination directory on success, or the first stage failure tagged with
// its stage name. Asset-copy problems never change the result.
func (b *Builder) Build() (string, error) {
	start := time.Now()
	st := NewState(b.req)
	log := slog.With(logfields.BuildID(st.BuildID))
	log.Info("Starting site build",
		logfields.Source(b.req.SourceDir),
		logfields.Destination(b.req.DestDir),
		logfields.Mode(string(b.req.Mode)))

	if err := b.prepareDest(); err != nil {
		b.rec.IncBuildOutcome("failed")
		return "", err
	}

	prepStart := time.Now()
	err := b.prepare(st)
	b.observeStage(StagePreparation, time.Since(prepStart), err)
	if err != nil {
		b.rec.IncBuildOutcome("failed")
		return "", err
	}

	genStart := time.Now()
	err = b.generate(st)
	genElapsed := time.Since(genStart)
	b.observeStage(StageGeneration, genElapsed, err)
	if err != nil {
		b.rec.IncBuildOutcome("failed")
		return "", err
	}
	log.Info("Generation finished",
		logfields.DurationMS(float64(genElapsed.Milliseconds())),
		"items", len(st.Items),
		"posts", len(st.Posts))

	b.copyAssets(b.req.SourceDir, b.req.DestDir)

	b.rec.IncBuildOutcome("success")
	b.rec.ObserveBuildDuration(time.Since(start))
	log.Info("Site build complete", logfields.Destination(b.req.DestDir))
	return b.req.DestDir, nil
}

// prepareDest validates write access and resets the destination directory.
// The writability check stats the parent of the destination and happens
// before any destination mutation.
func (b *Builder) prepareDest() error {
	dest := b.req.DestDir
	parent := filepath.Dir(strings.TrimSuffix(dest, string(filepath.Separator)))

	fi, err := os.Stat(parent)
	if err != nil {
		return outcome.FileError(dest, err)
	}
	if !fi.IsDir() {
		return outcome.FileError(dest, errors.New("destination parent is not a directory"))
	}
	if !writableBy(fi) {
		return outcome.FileError(dest, errors.New("destination parent is not writable"))
	}

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return outcome.FileError(dest, err)
	}
	return clearDest(dest)
}

// writableBy reports whether the stat mode grants the effective user write
// access, picking the owner, group, or other permission bit by ownership.
// Without ownership info only the owner bit is consulted.
func writableBy(fi os.FileInfo) bool {
	perm := fi.Mode().Perm()
	st, ok := fi.Sys().(*syscall.Stat_t)
	if !ok {
		return perm&0o200 != 0
	}
	switch {
	case os.Geteuid() == int(st.Uid):
		return perm&0o200 != 0
	case inGroup(int(st.Gid)):
		return perm&0o020 != 0
	}
	return perm&0o002 != 0
}

func inGroup(gid int) bool {
	if os.Getegid() == gid {
		return true
	}
	groups, err := os.Getgroups()
	if err != nil {
		return false
	}
	for _, g := range groups {
		if g == gid {
			return true
		}
	}
	return false
}

// clearDest removes every top-level destination entry except dot-prefixed
// ones, preserving version-control and hidden metadata directories across
// rebuilds.
func clearDest(dest string) error {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return outcome.FileError(dest, err)
	}
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		path := filepath.Join(dest, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			return outcome.FileError(path, err)
		}
	}
	return nil
}

func (b *Builder) observeStage(stage string, d time.Duration, err error) {
	b.rec.ObserveStageDuration(stage, d)
	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailed
	}
	b.rec.IncStageResult(stage, result)
}
