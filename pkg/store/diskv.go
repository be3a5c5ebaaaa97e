package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	perr "tableflip.dev/devo/pkg/errors"
)

// Config locates the store on disk.
type Config interface {
	BasePath() string
}

// Dir is a Config for a fixed directory.
type Dir string

func (d Dir) BasePath() string { return string(d) }

// Persistence is a small bucketed JSON document store that survives restarts.
type Persistence interface {
	Read(bucket, key string, v any) error
	Write(bucket, key string, v any) error
	Erase(bucket, key string) error
	Keys(ctx context.Context, bucket string) []string
	Watch(ctx context.Context) (<-chan Event, error)
}

// Load creates a Persistence backed by diskv rooted at cfg.BasePath().
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath := strings.TrimSpace(cfg.BasePath())
	if basePath == "" {
		return nil, errors.New("store: base path required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("store: ensure base path: %w", err)
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

// Read decodes the document at bucket/key into v. A missing document is a
// NotFound error. Reads bypass the in-memory cache so writes from other
// processes are seen.
func (p *persistence) Read(bucket, key string, v any) error {
	k, err := toKey(bucket, key)
	if err != nil {
		return err
	}
	rc, err := p.d.ReadStream(k, true)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return perr.NotFoundf("%s/%s not stored", bucket, key)
		}
		return fmt.Errorf("store: read %s/%s: %w", bucket, key, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return fmt.Errorf("store: read %s/%s: %w", bucket, key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return perr.Wrapf(err, perr.KindFormat, "%s/%s is not valid JSON", bucket, key)
	}
	return nil
}

func (p *persistence) Write(bucket, key string, v any) error {
	k, err := toKey(bucket, key)
	if err != nil {
		return err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("store: encode %s/%s: %w", bucket, key, err)
	}
	return p.d.Write(k, data)
}

func (p *persistence) Erase(bucket, key string) error {
	k, err := toKey(bucket, key)
	if err != nil {
		return err
	}
	if err := p.d.Erase(k); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Keys lists the keys stored in bucket, sorted.
func (p *persistence) Keys(ctx context.Context, bucket string) []string {
	want := encode(bucket)
	keys := make([]string, 0)
	for k := range p.d.Keys(ctx.Done()) {
		pk := keyToPathTransform(k)
		if len(pk.Path) != 1 || pk.Path[0] != want {
			continue
		}
		if name, ok := decode(pk.FileName); ok {
			keys = append(keys, name)
		}
	}
	sort.Strings(keys)
	return keys
}

// toKey makes `hex(bucket)-hex(key)` so any bucket or key is a safe path.
func toKey(bucket, key string) (string, error) {
	if strings.TrimSpace(bucket) == "" || strings.TrimSpace(key) == "" {
		return "", perr.Validationf("store: bucket and key required")
	}
	return encode(bucket) + "-" + encode(key), nil
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

func encode(s string) string { return hex.EncodeToString([]byte(s)) }

func decode(s string) (string, bool) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return "", false
	}
	return string(b), true
}
