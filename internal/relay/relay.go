// Package relay writes base64 image data URIs to object storage and hands
// back the public, bucket-qualified path of the stored object.
package relay

import (
	"context"
	"strings"

	"github.com/dmorgan81/gabu/internal/datauri"
	"github.com/dmorgan81/gabu/internal/log"
	"github.com/dmorgan81/gabu/internal/store"
	"github.com/samber/do"
)

type Request struct {
	Path    string `json:"path"`
	DataURL string `json:"dataUrl"`
}

type Result struct {
	ObjectPath string `json:"objectPath"`
}

// Relay is stateless; concurrent uploads to the same key race in the store
// and the last write wins.
type Relay struct {
	Store       store.ObjectStore
	Invalidator store.Invalidator
	Bucket      string
}

func NewRelay(i *do.Injector) (*Relay, error) {
	return &Relay{
		Store:       do.MustInvoke[store.ObjectStore](i),
		Invalidator: do.MustInvoke[store.Invalidator](i),
		Bucket:      do.MustInvokeNamed[string](i, "bucket"),
	}, nil
}

// Key strips leading slashes so "/a/b.png" and "a/b.png" address the same
// object.
func Key(path string) string {
	return strings.TrimLeft(path, "/")
}

func (r *Relay) Upload(ctx context.Context, req Request) (Result, error) {
	log := log.FromContextOrDiscard(ctx).WithGroup("relay").With("path", req.Path)

	if req.Path == "" || req.DataURL == "" {
		return Result{}, invalid("path and dataUrl are required")
	}
	if !datauri.IsImage(req.DataURL) {
		return Result{}, invalid("dataUrl is not an image data uri")
	}
	key := Key(req.Path)
	if key == "" {
		return Result{}, invalid("path is empty after normalization")
	}

	uri, err := datauri.Parse(req.DataURL)
	if err != nil {
		return Result{}, failed("parse data uri", err)
	}
	data, err := uri.Bytes()
	if err != nil {
		return Result{}, failed("decode payload", err)
	}

	log = log.With("key", key, "content-type", uri.MIME, "size", len(data))
	log.Info("storing object")

	if err := r.Store.Put(ctx, store.Object{Key: key, Data: data, ContentType: uri.MIME}); err != nil {
		return Result{}, failed("write object", err)
	}

	// The write is the operation of record; visibility and cache freshness
	// are best effort.
	if err := r.Store.MakePublic(ctx, key); err != nil {
		log.Warn("object stored but not public", "error", err)
	}
	if r.Invalidator != nil {
		if err := r.Invalidator.Invalidate(ctx, []string{"/" + key}); err != nil {
			log.Warn("cdn invalidation failed", "error", err)
		}
	}

	return Result{ObjectPath: "/" + r.Bucket + "/" + key}, nil
}
