package uploads

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Backup copies the upload tree into timestamped folders once a day and
// prunes folders older than Retention.
type Backup struct {
	SrcDir    string
	BackupDir string
	Retention time.Duration
	Hour      int
	Log       *zap.Logger
}

// Run blocks until ctx is cancelled.
func (b *Backup) Run(ctx context.Context) {
	for {
		now := time.Now()
		next := nextRun(now, b.Hour)
		b.Log.Info("next image backup scheduled", zap.Time("at", next))

		timer := time.NewTimer(next.Sub(now))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}

		if _, err := b.RunOnce(time.Now()); err != nil {
			b.Log.Error("failed to back up images", zap.Error(err))
		}
	}
}

// RunOnce performs one backup and cleanup pass and returns the folder written.
func (b *Backup) RunOnce(now time.Time) (string, error) {
	destDir := filepath.Join(b.BackupDir, now.Format("2006-01-02_15-04-05"))
	if err := copyDir(b.SrcDir, destDir); err != nil {
		return "", err
	}
	b.Log.Info("images backed up", zap.String("dest", destDir))

	b.cleanupOld(now)
	return destDir, nil
}

func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

func copyDir(src, dest string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}
	for _, entry := range entries {
		srcPath := filepath.Join(src, entry.Name())
		destPath := filepath.Join(dest, entry.Name())

		if entry.IsDir() {
			err = copyDir(srcPath, destPath)
		} else {
			err = copyFile(srcPath, destPath)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}

func (b *Backup) cleanupOld(now time.Time) {
	entries, err := os.ReadDir(b.BackupDir)
	if err != nil {
		b.Log.Error("failed to read backup directory", zap.Error(err))
		return
	}

	cutoff := now.Add(-b.Retention)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		folder := filepath.Join(b.BackupDir, entry.Name())
		info, err := os.Stat(folder)
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.RemoveAll(folder); err != nil {
				b.Log.Error("failed to remove old backup", zap.String("folder", folder), zap.Error(err))
			} else {
				b.Log.Info("removed old backup", zap.String("folder", folder))
			}
		}
	}
}
