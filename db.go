package fptable

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"go.etcd.io/bbolt"
)

// TxLevel classifies what a Tx is allowed to do, per SPEC_FULL.md §5.
type TxLevel int

const (
	LevelRead TxLevel = iota
	LevelWrite
	LevelSchema
)

func (l TxLevel) String() string {
	switch l {
	case LevelRead:
		return "read"
	case LevelWrite:
		return "write"
	case LevelSchema:
		return "schema"
	default:
		return "unknown"
	}
}

// Options configures an open DB, per SPEC_FULL.md "Configuration".
type Options struct {
	Logf      func(format string, args ...any)
	Verbose   bool
	IsTesting bool
	MmapSize  int

	// CacheSize overrides the handle cache's slot count; 0 selects
	// DefaultCacheSize.
	CacheSize int

	// AllowDotInNames mirrors the compile-time FPTA_ALLOW_DOT4NAMES
	// switch from the original implementation, exposed here as a normal
	// runtime option instead of a build tag.
	AllowDotInNames bool
}

// DB is an open database: a storage engine plus the schema machinery
// layered on top of it (shove-addressed DBIs, the handle cache, and the
// schema catalog).
type DB struct {
	st              storage
	logf            func(format string, args ...any)
	verbose         bool
	allowDotInNames bool

	// dbiMu serializes DBI open/create/drop outside of schema-level
	// transactions, which already hold schemaMu for their whole
	// duration (SPEC_FULL.md §5).
	dbiMu sync.Mutex
	cache *handleCache

	// dbiNames maps a Handle (1-based index) to the bucket name it was
	// assigned at open time. Entries are never reused, even after a
	// drop — mirroring the "ordinal numbers are never reused" design
	// note the original attaches to index slots.
	dbiNames  []string
	dbiByName map[string]Handle

	version       atomic.Uint64
	schemaVersion atomic.Uint64

	// schemaMu is held for the full duration of a schema-level
	// transaction, making CREATE/DROP TABLE globally exclusive even
	// though the underlying storage already serializes plain writers.
	schemaMu sync.Mutex
}

// Open opens (creating if necessary) a disk-backed database at path.
func Open(path string, opt Options) (*DB, error) {
	bopt := &bbolt.Options{Timeout: 10 * time.Second}
	*bopt = *bbolt.DefaultOptions
	if opt.IsTesting {
		bopt.NoSync = true
		bopt.NoFreelistSync = true
		bopt.InitialMmapSize = 1024 * 1024 * 5
	} else {
		bopt.InitialMmapSize = 1024 * 1024 * 1024
		bopt.FreelistType = bbolt.FreelistMapType
	}
	if opt.MmapSize != 0 {
		bopt.InitialMmapSize = opt.MmapSize
	}

	bdb, err := bbolt.Open(path, 0666, bopt)
	if err != nil {
		return nil, fmt.Errorf("fptable: open: %w", err)
	}
	return newDB(newBoltStorage(bdb), opt), nil
}

// OpenMem opens a transient in-memory database, for tests.
func OpenMem(opt Options) *DB {
	return newDB(newMemStorage(), opt)
}

func newDB(st storage, opt Options) *DB {
	logf := opt.Logf
	if logf == nil {
		logf = func(format string, args ...any) {
			slog.Info(fmt.Sprintf(format, args...))
		}
	}
	cacheSize := opt.CacheSize
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	return &DB{
		st:              st,
		logf:            logf,
		verbose:         opt.Verbose,
		allowDotInNames: opt.AllowDotInNames,
		cache:           newHandleCache(cacheSize),
		dbiByName:       make(map[string]Handle),
	}
}

func (db *DB) Close() error { return db.st.Close() }

func (db *DB) log(format string, args ...any) {
	if db.logf != nil {
		db.logf(format, args...)
	}
}

func (db *DB) logVerbose(format string, args ...any) {
	if db.verbose {
		db.log(format, args...)
	}
}

func (db *DB) nextVersion() uint64        { return db.version.Add(1) }
func (db *DB) currentVersion() uint64     { return db.version.Load() }
func (db *DB) currentSchemaVersion() uint64 { return db.schemaVersion.Load() }

// dbiOpen resolves shove to a stable Handle, per SPEC_FULL.md §4.7 (the
// generalized fpta_dbi_open): it creates the backing bucket when create
// is true, or reports ErrNotFound when it isn't and the bucket doesn't
// exist. Schema-level callers already hold schemaMu for the whole
// transaction and skip dbiMu to avoid self-contention; all other levels
// take it for the duration of the call. A remembered handle whose bucket
// is absent from tx (left by a rolled-back transaction) is not reused.
func (db *DB) dbiOpen(tx *Tx, shove Shove, create bool) (Handle, error) {
	if tx.level != LevelSchema {
		db.dbiMu.Lock()
		defer db.dbiMu.Unlock()
	}

	name := ShoveToName(shove)
	if h, ok := db.dbiByName[name]; ok && tx.stx.Bucket(name, "") != nil {
		return h, nil
	}

	if create {
		if _, err := tx.stx.CreateBucket(name, ""); err != nil {
			return 0, err
		}
	} else if tx.stx.Bucket(name, "") == nil {
		return 0, ErrNotFound
	}

	db.dbiNames = append(db.dbiNames, name)
	h := Handle(len(db.dbiNames))
	db.dbiByName[name] = h
	slog.Debug("dbi opened", hexAttr("shove", shoveBytes(shove)), slog.String("bucket", name), slog.Bool("create", create))
	return h, nil
}

// dbiCreateExclusive creates the bucket backing shove, failing with
// ErrExist if it already exists in storage — the defense-in-depth half
// of CREATE TABLE's pre-flight EEXIST check (SPEC_FULL.md §4.8 step 5).
// Like dbiOpen, schema-level callers already hold schemaMu for the whole
// transaction and skip dbiMu here.
func (db *DB) dbiCreateExclusive(tx *Tx, shove Shove) (Handle, error) {
	if tx.level != LevelSchema {
		db.dbiMu.Lock()
		defer db.dbiMu.Unlock()
	}

	name := ShoveToName(shove)
	if _, ok := db.dbiByName[name]; ok && tx.stx.Bucket(name, "") != nil {
		return 0, ErrExist
	}

	if _, err := tx.stx.CreateBucketExclusive(name, ""); err != nil {
		if err == ErrBucketExists {
			return 0, ErrExist
		}
		return 0, err
	}

	db.dbiNames = append(db.dbiNames, name)
	h := Handle(len(db.dbiNames))
	db.dbiByName[name] = h
	slog.Debug("dbi created", hexAttr("shove", shoveBytes(shove)), slog.String("bucket", name))
	return h, nil
}

// dbiDrop drops the bucket backing shove, forgets its handle, and evicts
// it from the handle cache. The handle value itself is retired, not
// reassigned (see the dbiNames field comment).
func (db *DB) dbiDrop(tx *Tx, shove Shove) error {
	if tx.level != LevelSchema {
		db.dbiMu.Lock()
		defer db.dbiMu.Unlock()
	}

	name := ShoveToName(shove)
	if err := tx.stx.DeleteBucket(name, ""); err != nil && err != ErrBucketNotFound {
		return err
	}
	db.cache.remove(shove)
	if h, ok := db.dbiByName[name]; ok {
		db.dbiNames[h-1] = ""
		delete(db.dbiByName, name)
	}
	slog.Debug("dbi dropped", hexAttr("shove", shoveBytes(shove)), slog.String("bucket", name))
	return nil
}

// shoveBytes renders shove as its 8-byte big-endian wire form, for
// log.Debug tracing.
func shoveBytes(shove Shove) []byte {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(shove))
	return buf[:]
}

func (db *DB) dbiNameOf(h Handle) string {
	if h == 0 || int(h) > len(db.dbiNames) {
		return ""
	}
	db.dbiMu.Lock()
	name := db.dbiNames[h-1]
	db.dbiMu.Unlock()
	return name
}

// dbiOpenHinted resolves shove to a Handle the way a name handle does:
// try the lock-free cache with the caller's hint first, and only fall
// back to the mutex-guarded dbiOpen on a miss. Per the original
// implementation (preserved here for fidelity, see DESIGN.md), a handle
// is only published into the cache when opened from a read-level
// transaction — write- and schema-level opens pay the full lookup cost
// every time.
func (db *DB) dbiOpenHinted(tx *Tx, shove Shove, create bool, hint uint32) (Handle, uint32, error) {
	if h := db.cache.peek(shove, hint); h != 0 {
		return h, hint, nil
	}

	h, err := db.dbiOpen(tx, shove, create)
	if err != nil {
		return 0, NoHint, err
	}

	newHint := hint
	if tx.level == LevelRead {
		db.dbiMu.Lock()
		if existing, idx := db.cache.lookup(shove, hint); existing != 0 {
			newHint = idx
		} else {
			newHint = db.cache.insert(shove, h)
		}
		db.dbiMu.Unlock()
	}
	return h, newHint, nil
}

// bucket resolves a Handle to this transaction's view of its bucket.
// Engine bucket objects aren't valid outside the transaction that
// produced them, so every access re-resolves by name.
func (tx *Tx) bucket(h Handle) (storageBucket, error) {
	name := tx.db.dbiNameOf(h)
	if name == "" {
		return nil, ErrNotFound
	}
	b := tx.stx.Bucket(name, "")
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}
