package fptable

import (
	"fmt"
	"runtime/debug"
)

// Tx is a transaction against a DB, tagged with the level at which it was
// opened (SPEC_FULL.md §5). A Tx is not safe for concurrent use.
type Tx struct {
	db    *DB
	stx   storageTx
	level TxLevel

	// version is this transaction's assigned version: the Go stand-in
	// for an MDBX meta-page transaction id. Read-level transactions see
	// the database's current version; write- and schema-level ones are
	// assigned a fresh one at Begin, whether or not they go on to
	// commit.
	version uint64

	// schemaVersion is the schema version this transaction observes: the
	// version last committed by a schema transaction, or — once this
	// transaction has itself staged a CREATE/DROP TABLE — the version
	// that change will carry (SPEC_FULL.md §4.6 step 3e).
	schemaVersion uint64

	closed bool
}

func (db *DB) begin(level TxLevel) (*Tx, error) {
	writable := level != LevelRead
	if level == LevelSchema {
		db.schemaMu.Lock()
	}

	stx, err := db.st.BeginTx(writable)
	if err != nil {
		if level == LevelSchema {
			db.schemaMu.Unlock()
		}
		return nil, err
	}

	tx := &Tx{db: db, stx: stx, level: level}
	if writable {
		tx.version = db.nextVersion()
	} else {
		tx.version = db.currentVersion()
	}
	tx.schemaVersion = db.currentSchemaVersion()
	return tx, nil
}

// BeginRead starts a read-only transaction.
func (db *DB) BeginRead() (*Tx, error) { return db.begin(LevelRead) }

// BeginWrite starts a data-writing transaction. It does not grant
// schema-change rights; use BeginSchema for CREATE/DROP TABLE.
func (db *DB) BeginWrite() (*Tx, error) { return db.begin(LevelWrite) }

// BeginSchema starts a schema-changing transaction, globally exclusive
// with any other schema-level transaction (SPEC_FULL.md §5).
func (db *DB) BeginSchema() (*Tx, error) { return db.begin(LevelSchema) }

// View runs f inside a read-only transaction, always rolling back.
func (db *DB) View(f func(tx *Tx) error) error {
	tx, err := db.BeginRead()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	return safelyCallTx(f, tx)
}

// Update runs f inside a write-level transaction, committing on success.
func (db *DB) Update(f func(tx *Tx) error) error {
	tx, err := db.BeginWrite()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := safelyCallTx(f, tx); err != nil {
		return err
	}
	return tx.Commit()
}

// UpdateSchema runs f inside a schema-level transaction, committing on
// success. Use this for CreateTable/DropTable.
func (db *DB) UpdateSchema(f func(tx *Tx) error) error {
	tx, err := db.BeginSchema()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := safelyCallTx(f, tx); err != nil {
		return err
	}
	return tx.Commit()
}

type panicked struct {
	reason any
	stack  string
}

func (p panicked) Error() string {
	return fmt.Sprintf("fptable: panic: %v\n\n%s", p.reason, p.stack)
}

func safelyCallTx(fn func(*Tx) error, tx *Tx) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = panicked{p, string(debug.Stack())}
		}
	}()
	return fn(tx)
}

func (tx *Tx) DB() *DB { return tx.db }

// Level reports whether tx is a read, write, or schema transaction.
func (tx *Tx) Level() TxLevel { return tx.level }

func (tx *Tx) Writable() bool { return tx.stx.Writable() }

// DBVersion returns this transaction's assigned version.
func (tx *Tx) DBVersion() uint64 { return tx.version }

// SchemaVersion returns the schema version this transaction observes.
func (tx *Tx) SchemaVersion() uint64 { return tx.schemaVersion }

// bumpSchemaVersion is called by CreateTable/DropTable once a change has
// been staged in this (necessarily schema-level) transaction.
func (tx *Tx) bumpSchemaVersion() {
	tx.schemaVersion = tx.version
}

// Commit commits the transaction. For a schema-level transaction this
// also publishes its schema version to the DB, making it visible to
// transactions that begin afterward.
func (tx *Tx) Commit() error {
	if tx.closed {
		return nil
	}
	tx.closed = true
	defer tx.unlockSchema()

	if !tx.stx.Writable() {
		return tx.stx.Rollback()
	}
	if err := tx.stx.Commit(); err != nil {
		return err
	}
	if tx.level == LevelSchema {
		tx.db.schemaVersion.Store(tx.schemaVersion)
	}
	return nil
}

// Rollback aborts the transaction. Safe to call after Commit or a prior
// Rollback.
func (tx *Tx) Rollback() error {
	if tx.closed {
		return nil
	}
	tx.closed = true
	defer tx.unlockSchema()
	return tx.stx.Rollback()
}

func (tx *Tx) unlockSchema() {
	if tx.level == LevelSchema {
		tx.db.schemaMu.Unlock()
	}
}
