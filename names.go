package fptable

// TableHandle is a client-held, lazily-bound reference to a table by
// name, per SPEC_FULL.md §3.4/§4.6. It starts unbound — just a name
// hash — and binds to a concrete schema the first time it is refreshed
// against a transaction; subsequent refreshes against transactions that
// still see the same schema version are no-ops.
type TableHandle struct {
	shove Shove

	bound         bool
	schemaVersion uint64
	handle        Handle
	cacheHint     uint32
	schema        *TableSchema
}

// TableByName constructs an unbound handle for a table name, under the
// package's default dot-in-names policy (SPEC_FULL.md "Configuration").
// The name is validated and hashed immediately; no I/O happens until
// Refresh. Call sites that already hold a transaction validate against
// the owning DB's Options.AllowDotInNames instead: OpenTable via
// newTableHandle, CreateTable and DropTable via ValidateName.
func TableByName(name string) (*TableHandle, error) {
	return newTableHandle(name, allowDotInNamesDefault)
}

func newTableHandle(name string, allowDot bool) (*TableHandle, error) {
	if !ValidateName(name, allowDot) {
		return nil, ErrInvalid
	}
	return &TableHandle{shove: ShoveOfName(name, NameKindTable), cacheHint: NoHint}, nil
}

// Shove returns the table's identifier.
func (t *TableHandle) Shove() Shove { return t.shove }

// Bound reports whether the handle has been successfully refreshed at
// least once and not since Reset.
func (t *TableHandle) Bound() bool { return t.bound }

// ColumnCount returns the number of columns in the table's current
// schema. Valid only once Bound.
func (t *TableHandle) ColumnCount() int {
	if !t.bound {
		return 0
	}
	return len(t.schema.Columns)
}

// ColumnAt returns a freshly bound ColumnHandle for the i-th column in
// storage order (primary first, then secondaries, then non-indexed), the
// supplemented counterpart of fpta_table_column_get (SPEC_FULL.md
// "Supplemented features").
func (t *TableHandle) ColumnAt(i int) (*ColumnHandle, error) {
	if !t.bound {
		return nil, ErrInvalid
	}
	if i < 0 || i >= len(t.schema.Columns) {
		return nil, ErrInvalid
	}
	s := t.schema.Columns[i]
	return &ColumnHandle{
		table:         t,
		nameShove:     s &^ lowFieldMask,
		bound:         true,
		schemaVersion: t.schemaVersion,
		columnIndex:   i,
		shove:         s,
	}, nil
}

// PrimaryIndexKind returns the primary column's index kind. Valid only
// once Bound.
func (t *TableHandle) PrimaryIndexKind() IndexKind {
	if !t.bound {
		return IndexNone
	}
	return IndexOf(t.schema.PrimaryKindBits())
}

// Reset unbinds the handle, discarding any cached schema. The next
// Refresh starts from scratch, per fpta_name_reset.
func (t *TableHandle) Reset() {
	t.bound = false
	t.schema = nil
	t.handle = 0
	t.cacheHint = NoHint
	t.schemaVersion = 0
}

// Refresh binds (or re-validates) the handle against tx's schema
// version, per SPEC_FULL.md §4.6:
//  1. If already bound at tx's schema version, it's a no-op.
//  2. If the handle is bound at a version newer than tx's, fail
//     SCHEMA_CHANGED: the caller is holding a handle from a later
//     snapshot than the transaction it's refreshing against, which a
//     coherent client flow never does.
//  3. Read and validate the table's catalog row.
//  4. Resolve (or confirm) the handle to the table's primary DBI,
//     through the hinted lock-free cache path.
//  5. Stash the schema and advance the handle's schema version.
// A table dropped out from under a stale handle surfaces as
// ErrNotFound; the handle is left unbound so the caller can Reset and
// move on rather than silently operate on stale data.
func (t *TableHandle) Refresh(tx *Tx) error {
	if t.bound && t.schemaVersion == tx.SchemaVersion() {
		return nil
	}
	if t.bound && t.schemaVersion > tx.SchemaVersion() {
		return ErrSchemaChanged
	}

	schema, err := SchemaRead(tx, t.shove)
	if err != nil {
		t.Reset()
		return err
	}

	h, hint, err := tx.db.dbiOpenHinted(tx, DbiShove(t.shove, 0), false, t.cacheHint)
	if err != nil {
		t.Reset()
		return err
	}

	t.schema = schema
	t.handle = h
	t.cacheHint = hint
	t.schemaVersion = tx.SchemaVersion()
	t.bound = true
	return nil
}

// ColumnHandle is a client-held, lazily-bound reference to a column by
// name within a TableHandle, per SPEC_FULL.md §3.4/§4.6 (the tagged
// back-reference to its owning table resolves the Open Question on
// table/column coupling — see DESIGN.md).
type ColumnHandle struct {
	table     *TableHandle
	nameShove Shove

	bound         bool
	schemaVersion uint64
	columnIndex   int
	shove         Shove
}

// ColumnByName constructs an unbound handle for a column of table, under
// the package's default dot-in-names policy. table itself need not be
// bound yet. OpenColumn validates against the owning DB's policy instead,
// via newColumnHandle.
func ColumnByName(table *TableHandle, name string) (*ColumnHandle, error) {
	return newColumnHandle(table, name, allowDotInNamesDefault)
}

func newColumnHandle(table *TableHandle, name string, allowDot bool) (*ColumnHandle, error) {
	if table == nil {
		return nil, ErrInvalid
	}
	if !ValidateName(name, allowDot) {
		return nil, ErrInvalid
	}
	return &ColumnHandle{table: table, nameShove: ShoveOfName(name, NameKindColumn)}, nil
}

// Table returns the owning table handle.
func (c *ColumnHandle) Table() *TableHandle { return c.table }

// Bound reports whether the handle is currently resolved.
func (c *ColumnHandle) Bound() bool { return c.bound }

// Shove returns the column's full shove (name hash, type, and index
// kind). Valid only once Bound.
func (c *ColumnHandle) Shove() Shove { return c.shove }

// Type returns the column's data type. Valid only once Bound.
func (c *ColumnHandle) Type() DataType { return TypeOf(c.shove) }

// IndexKind returns the column's index kind. Valid only once Bound.
func (c *ColumnHandle) IndexKind() IndexKind { return IndexOf(c.shove) }

// ColumnIndex returns the column's slot in the table's storage order.
// Valid only once Bound.
func (c *ColumnHandle) ColumnIndex() int { return c.columnIndex }

// Reset unbinds the handle without affecting its table.
func (c *ColumnHandle) Reset() {
	c.bound = false
	c.shove = 0
	c.columnIndex = 0
	c.schemaVersion = 0
}

// Refresh binds (or re-validates) the handle, first refreshing its
// table. If the column is bound at a version newer than the table's
// (freshly refreshed) version, it fails SCHEMA_CHANGED, per §4.6 step 6,
// the same "caller is ahead of the transaction" case TableHandle.Refresh
// guards against. A dropped table surfaces as the table refresh's
// ErrNotFound; a column name that does not appear in the table's
// current schema surfaces as ErrNoSuchColumn.
func (c *ColumnHandle) Refresh(tx *Tx) error {
	if err := c.table.Refresh(tx); err != nil {
		c.Reset()
		return err
	}
	if c.bound && c.schemaVersion == tx.SchemaVersion() {
		return nil
	}
	if c.bound && c.schemaVersion > tx.SchemaVersion() {
		return ErrSchemaChanged
	}

	for i, s := range c.table.schema.Columns {
		if NameEqual(s, c.nameShove) {
			c.shove = s
			c.columnIndex = i
			c.schemaVersion = tx.SchemaVersion()
			c.bound = true
			return nil
		}
	}
	c.Reset()
	return ErrNoSuchColumn
}

// RefreshCouple refreshes a table and one of its columns together,
// per fpta_name_refresh_couple. Passing a nil column refreshes only the
// table. It is an error for col to belong to a different table.
func RefreshCouple(tx *Tx, table *TableHandle, col *ColumnHandle) error {
	if col != nil && col.table != table {
		return ErrInvalid
	}
	if err := table.Refresh(tx); err != nil {
		return err
	}
	if col != nil {
		return col.Refresh(tx)
	}
	return nil
}
