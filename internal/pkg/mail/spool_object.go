package mail

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/shandysiswandi/resetmail/internal/pkg/storage"
)

const (
	objectQueueDir   = "queue/"
	objectClaimedDir = "sending/"
)

// ObjectStore keeps spooled messages in an object storage bucket.
//
// Queued entries live under <prefix>queue/ and claimed entries under
// <prefix>sending/. Object stores have no atomic rename, so a claim is a
// server-side copy followed by a delete; run a single flusher per prefix.
type ObjectStore struct {
	bucket storage.Storage
	prefix string
}

// NewObjectStore returns a store writing under prefix in bucket.
func NewObjectStore(bucket storage.Storage, prefix string) *ObjectStore {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &ObjectStore{bucket: bucket, prefix: prefix}
}

func (o *ObjectStore) queuedKey(sm SpooledMessage) string {
	return o.prefix + objectQueueDir + sm.entryName()
}

func (o *ObjectStore) claimedKey(sm SpooledMessage) string {
	return o.prefix + objectClaimedDir + sm.entryName()
}

func (o *ObjectStore) Enqueue(ctx context.Context, sm SpooledMessage) error {
	data, err := json.Marshal(sm)
	if err != nil {
		return err
	}
	return o.bucket.Put(ctx, o.queuedKey(sm), data, "application/json")
}

func (o *ObjectStore) Queued(ctx context.Context) ([]SpooledMessage, error) {
	objects, err := o.bucket.List(ctx, o.prefix+objectQueueDir)
	if err != nil {
		return nil, err
	}

	out := make([]SpooledMessage, 0, len(objects))
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, spoolExt) {
			continue
		}

		data, err := o.bucket.Get(ctx, obj.Key)
		if errors.Is(err, storage.ErrObjectNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}

		var sm SpooledMessage
		if err := json.Unmarshal(data, &sm); err != nil {
			slog.WarnContext(ctx, "skip unreadable spool object", "key", obj.Key, "error", err)
			continue
		}
		out = append(out, sm)
	}

	sortSpooled(out)
	return out, nil
}

func (o *ObjectStore) Claim(ctx context.Context, sm SpooledMessage, _ time.Time) error {
	if err := o.bucket.Copy(ctx, o.queuedKey(sm), o.claimedKey(sm)); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return ErrSpoolEntryClaimed
		}
		return err
	}
	return o.bucket.Delete(ctx, o.queuedKey(sm))
}

func (o *ObjectStore) Release(ctx context.Context, sm SpooledMessage) error {
	data, err := json.Marshal(sm)
	if err != nil {
		return err
	}
	if err := o.bucket.Put(ctx, o.queuedKey(sm), data, "application/json"); err != nil {
		return err
	}
	return o.bucket.Delete(ctx, o.claimedKey(sm))
}

func (o *ObjectStore) Remove(ctx context.Context, sm SpooledMessage) error {
	return o.bucket.Delete(ctx, o.claimedKey(sm))
}

func (o *ObjectStore) Recover(ctx context.Context, cutoff time.Time) (int, error) {
	objects, err := o.bucket.List(ctx, o.prefix+objectClaimedDir)
	if err != nil {
		return 0, err
	}

	var recovered int
	for _, obj := range objects {
		if !strings.HasSuffix(obj.Key, spoolExt) || !obj.UpdatedAt.Before(cutoff) {
			continue
		}

		queued := o.prefix + objectQueueDir + path.Base(obj.Key)
		if err := o.bucket.Copy(ctx, obj.Key, queued); err != nil {
			if errors.Is(err, storage.ErrObjectNotFound) {
				continue
			}
			return recovered, err
		}
		if err := o.bucket.Delete(ctx, obj.Key); err != nil {
			return recovered, err
		}
		recovered++
	}

	return recovered, nil
}

func (o *ObjectStore) Clear(ctx context.Context) error {
	objects, err := o.bucket.List(ctx, o.prefix)
	if err != nil {
		return err
	}

	var errs []error
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, spoolExt) {
			errs = append(errs, o.bucket.Delete(ctx, obj.Key))
		}
	}
	return errors.Join(errs...)
}
