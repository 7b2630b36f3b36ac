package driver

import (
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"vlalign/internal/format"
	"vlalign/internal/project"
	"vlalign/internal/source"
)

// Current schema version - increment when BlockPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты выравнивания блоков на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// BlockPayload is the cached outcome of format.Align for one block.
type BlockPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Text          string
	Mode          uint8 // format.Mode
	Verbatim      []int
	RangeMismatch bool
	Aligned       int
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir ([cache].dir in .vlalign.toml).
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key project.Digest) string {
	hexKey := hex.EncodeToString(key[:])
	// подкаталог "blocks" и два символа префикса, чтобы не копить тысячи файлов в одном месте
	return filepath.Join(c.dir, "blocks", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key project.Digest, payload *BlockPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(payload); err != nil {
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads of an
// older schema are reported as a miss.
func (c *DiskCache) Get(key project.Digest, out *BlockPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer func() { _ = f.Close() }()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог и удалим
	blocks := filepath.Join(c.dir, "blocks")
	old := blocks + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(blocks, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}

// blockKey = H(content || options || selection).
func blockKey(block string, opt format.Options, sel source.LineRange) project.Digest {
	return project.Combine(
		project.DigestOf(block),
		project.DigestOf(fmt.Sprintf("condense=%t eol=%t", opt.CondenseBlankLines, opt.AlignEndOfLine)),
		project.DigestOf(sel.String()),
	)
}

func resultToPayload(res format.Result) *BlockPayload {
	return &BlockPayload{
		Schema:        diskCacheSchemaVersion,
		Text:          res.Text,
		Mode:          uint8(res.Mode),
		Verbatim:      res.Verbatim,
		RangeMismatch: res.RangeMismatch,
		Aligned:       res.Aligned,
	}
}

func payloadToResult(p *BlockPayload) format.Result {
	return format.Result{
		Text:          p.Text,
		Mode:          format.Mode(p.Mode),
		Verbatim:      p.Verbatim,
		RangeMismatch: p.RangeMismatch,
		Aligned:       p.Aligned,
	}
}
