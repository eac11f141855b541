package mail

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const (
	spoolExt   = ".message"
	claimedExt = ".sending"
)

// FileStore keeps one JSON file per spooled message in a directory.
//
// Queued entries are named <unixnano>-<id>.message. Claiming renames the file
// to <name>.sending, which is atomic on a single filesystem, so concurrent
// flushers never deliver the same entry twice.
type FileStore struct {
	dir string
}

// NewFileStore returns a store rooted at dir. The directory is created on
// first write; a missing directory reads as an empty spool.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Dir returns the spool directory.
func (f *FileStore) Dir() string {
	return f.dir
}

func (f *FileStore) Enqueue(_ context.Context, sm SpooledMessage) error {
	data, err := json.Marshal(sm)
	if err != nil {
		return err
	}
	return writeFileAtomic(f.dir, sm.entryName(), data)
}

func (f *FileStore) Queued(ctx context.Context) ([]SpooledMessage, error) {
	entries, err := f.entries()
	if err != nil {
		return nil, err
	}

	out := make([]SpooledMessage, 0, len(entries))
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !strings.HasSuffix(entry.Name(), spoolExt) {
			continue
		}

		sm, err := readSpooled(filepath.Join(f.dir, entry.Name()))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			slog.WarnContext(ctx, "skip unreadable spool file", "file", entry.Name(), "error", err)
			continue
		}
		out = append(out, sm)
	}

	sortSpooled(out)
	return out, nil
}

func (f *FileStore) Claim(_ context.Context, sm SpooledMessage, at time.Time) error {
	queued := filepath.Join(f.dir, sm.entryName())
	claimed := queued + claimedExt

	if err := os.Rename(queued, claimed); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSpoolEntryClaimed
		}
		return err
	}

	return os.Chtimes(claimed, at, at)
}

func (f *FileStore) Release(_ context.Context, sm SpooledMessage) error {
	data, err := json.Marshal(sm)
	if err != nil {
		return err
	}
	queued := filepath.Join(f.dir, sm.entryName())
	claimed := queued + claimedExt

	// The entry stays claimed until the final rename puts it back in the queue.
	if err := writeFileAtomic(f.dir, sm.entryName()+claimedExt, data); err != nil {
		return err
	}
	return os.Rename(claimed, queued)
}

func (f *FileStore) Remove(_ context.Context, sm SpooledMessage) error {
	return removeIfExists(filepath.Join(f.dir, sm.entryName()+claimedExt))
}

func (f *FileStore) Recover(ctx context.Context, cutoff time.Time) (int, error) {
	entries, err := f.entries()
	if err != nil {
		return 0, err
	}

	var recovered int
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return recovered, err
		}
		if !strings.HasSuffix(entry.Name(), spoolExt+claimedExt) {
			continue
		}

		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}

		claimed := filepath.Join(f.dir, entry.Name())
		if err := os.Rename(claimed, strings.TrimSuffix(claimed, claimedExt)); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return recovered, err
		}
		recovered++
	}

	return recovered, nil
}

func (f *FileStore) Clear(_ context.Context) error {
	entries, err := f.entries()
	if err != nil {
		return err
	}

	var errs []error
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, spoolExt) || strings.HasSuffix(name, spoolExt+claimedExt) {
			errs = append(errs, removeIfExists(filepath.Join(f.dir, name)))
		}
	}
	return errors.Join(errs...)
}

func (f *FileStore) entries() ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(f.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	files := entries[:0]
	for _, e := range entries {
		if e.Type().IsRegular() {
			files = append(files, e)
		}
	}
	return files, nil
}

func readSpooled(path string) (SpooledMessage, error) {
	// #nosec G304 -- path is built from the spool directory listing.
	data, err := os.ReadFile(path)
	if err != nil {
		return SpooledMessage{}, err
	}

	var sm SpooledMessage
	if err := json.Unmarshal(data, &sm); err != nil {
		return SpooledMessage{}, err
	}
	return sm, nil
}

// writeFileAtomic writes data to dir/name through a synced temp file and a rename.
func writeFileAtomic(dir, name string, data []byte) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	return os.Rename(tmpName, filepath.Join(dir, name))
}

func removeIfExists(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func sortSpooled(list []SpooledMessage) {
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].QueuedAt.Equal(list[j].QueuedAt) {
			return list[i].ID < list[j].ID
		}
		return list[i].QueuedAt.Before(list[j].QueuedAt)
	})
}
