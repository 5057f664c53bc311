package fptable

// OpenTable resolves name to a bound TableHandle against tx, per
// SPEC_FULL.md §4.7 (fpta_table_init + fpta_name_refresh in one call).
func OpenTable(tx *Tx, name string) (*TableHandle, error) {
	t, err := newTableHandle(name, tx.db.allowDotInNames)
	if err != nil {
		return nil, err
	}
	if err := t.Refresh(tx); err != nil {
		return nil, err
	}
	return t, nil
}

// OpenColumn resolves name to a bound ColumnHandle of table against tx.
func OpenColumn(tx *Tx, table *TableHandle, name string) (*ColumnHandle, error) {
	c, err := newColumnHandle(table, name, tx.db.allowDotInNames)
	if err != nil {
		return nil, err
	}
	if err := c.Refresh(tx); err != nil {
		return nil, err
	}
	return c, nil
}

// OpenSecondaries returns a bound ColumnHandle for every secondary-index
// column of table, in storage order, per SPEC_FULL.md §4.7. Unlike
// OpenColumn, these are constructed straight from the already-loaded
// schema rather than by name lookup, since a shove's name hash cannot be
// inverted back into a string.
func OpenSecondaries(tx *Tx, table *TableHandle) ([]*ColumnHandle, error) {
	if err := table.Refresh(tx); err != nil {
		return nil, err
	}
	var out []*ColumnHandle
	for i, s := range table.schema.Columns {
		if i == 0 || !IsIndexed(s) {
			continue
		}
		out = append(out, &ColumnHandle{
			table:         table,
			nameShove:     s &^ lowFieldMask,
			bound:         true,
			schemaVersion: table.schemaVersion,
			columnIndex:   i,
			shove:         s,
		})
	}
	return out, nil
}

// indexSlotCount returns how many leading entries of a finalized column
// array are indexed (and thus own a physical DBI): the primary always
// occupies slot 0, and validateColumnDef already guarantees any indexed
// secondaries are contiguous starting at slot 1.
func indexSlotCount(columns []Shove) int {
	n := 1
	for n < len(columns) && IsIndexed(columns[n]) {
		n++
	}
	return n
}

// CreateTable defines a new table, per SPEC_FULL.md §4.8. tx must be a
// schema-level transaction. The column set is finalized (sorted and
// validated) as part of the call; a finalize failure leaves nothing
// persisted.
func CreateTable(tx *Tx, name string, cs *ColumnSet) (*TableHandle, error) {
	if tx.Level() != LevelSchema {
		return nil, ErrInvalid
	}
	if !ValidateName(name, tx.db.allowDotInNames) {
		return nil, ErrInvalid
	}
	if err := cs.Finalize(); err != nil {
		return nil, err
	}
	columns := cs.Columns()
	tableShove := ShoveOfName(name, NameKindTable)

	if _, err := SchemaRead(tx, tableShove); err == nil {
		return nil, ErrExist
	} else if err != ErrNotFound {
		return nil, err
	}

	slots := indexSlotCount(columns)

	// Pre-flight (§4.8 step 4): every indexed position's B-tree must be
	// absent before anything is created. Opening without CREATE and
	// getting back anything other than NOTFOUND means a B-tree already
	// sits at that shove — most likely leftover from a prior CREATE
	// TABLE whose rollback failed to actually drop it — and this call
	// must fail rather than silently adopt that B-tree's contents.
	for k := 0; k < slots; k++ {
		if _, err := tx.db.dbiOpen(tx, DbiShove(tableShove, k), false); err == nil {
			return nil, ErrExist
		} else if err != ErrNotFound {
			return nil, err
		}
	}

	// Create phase (§4.8 step 5): re-open every indexed position, this
	// time requiring it not already exist at the storage layer itself
	// (not just in the pre-flight's point-in-time check), so a B-tree
	// that appeared between pre-flight and here is still caught.
	created := make([]Shove, 0, slots)
	for k := 0; k < slots; k++ {
		dbiShove := DbiShove(tableShove, k)
		if _, err := tx.db.dbiCreateExclusive(tx, dbiShove); err != nil {
			rollbackCreatedDBIs(tx, created)
			return nil, err
		}
		created = append(created, dbiShove)
	}

	schema := &TableSchema{CSN: tx.DBVersion(), Shove: tableShove, Columns: columns}
	if err := schemaInsert(tx, schema); err != nil {
		rollbackCreatedDBIs(tx, created)
		return nil, err
	}

	tx.bumpSchemaVersion()

	th := &TableHandle{shove: tableShove, cacheHint: NoHint}
	if err := th.Refresh(tx); err != nil {
		return nil, err
	}
	return th, nil
}

func rollbackCreatedDBIs(tx *Tx, created []Shove) {
	for _, s := range created {
		_ = tx.db.dbiDrop(tx, s)
	}
}

// DropTable removes a table and all of its physical DBIs, per
// SPEC_FULL.md §4.9. tx must be a schema-level transaction.
func DropTable(tx *Tx, name string) error {
	if tx.Level() != LevelSchema {
		return ErrInvalid
	}
	if !ValidateName(name, tx.db.allowDotInNames) {
		return ErrInvalid
	}
	tableShove := ShoveOfName(name, NameKindTable)

	schema, err := SchemaRead(tx, tableShove)
	if err != nil {
		return err
	}

	if err := schemaDelete(tx, tableShove); err != nil {
		return err
	}

	slots := indexSlotCount(schema.Columns)
	for k := 0; k < slots; k++ {
		if err := tx.db.dbiDrop(tx, DbiShove(tableShove, k)); err != nil {
			return err
		}
	}

	tx.bumpSchemaVersion()
	return nil
}
