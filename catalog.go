package fptable

import "encoding/binary"

// catalogBucketName names the distinguished system bucket holding one row
// per table, keyed by table shove (SPEC_FULL.md §3.6/§4.5). It leads with
// a character outside shoveAlphabet so no user table's rendered bucket
// name can ever collide with it.
const catalogBucketName = "!catalog"

// catalogKey encodes a table shove as 8 big-endian bytes. The original
// implementation stores the key as raw native-endian bytes, which is
// little-endian on the platforms it targets; here the catalog is walked
// by a byte-lexicographic cursor (storageCursor), so the key is encoded
// big-endian instead to make that walk visit tables in ascending shove
// order. This is a deliberate, documented deviation — see DESIGN.md.
func catalogKey(tableShove Shove) []byte {
	buf := getCatalogKeyBuf()
	binary.BigEndian.PutUint64(buf, uint64(tableShove))
	return buf
}

func catalogKeyShove(key []byte) Shove {
	return Shove(binary.BigEndian.Uint64(key))
}

func catalogBucket(stx storageTx, create bool) (storageBucket, error) {
	if create {
		return stx.CreateBucket(catalogBucketName, "")
	}
	b := stx.Bucket(catalogBucketName, "")
	if b == nil {
		return nil, nil
	}
	return b, nil
}

// SchemaRead fetches and validates the persisted schema record for a
// single table, per SPEC_FULL.md §4.5. It returns ErrNotFound if no
// catalog exists yet or the table has no row, and a SchemaError wrapping
// ErrSchemaCorrupted if the row fails validation.
func SchemaRead(tx *Tx, tableShove Shove) (*TableSchema, error) {
	b, err := catalogBucket(tx.stx, false)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	key := catalogKey(tableShove)
	raw := b.Get(key)
	putCatalogKeyBuf(key)
	if raw == nil {
		return nil, ErrNotFound
	}
	if !ValidateRecordBytes(raw) {
		return nil, schemaErrf(tableShove, 0, ErrSchemaCorrupted, "malformed catalog row")
	}
	return UnmarshalRecordBytes(raw), nil
}

// SchemaFetch walks the whole catalog in ascending table-shove order,
// validating every row, per SPEC_FULL.md §4.5. An empty or nonexistent
// catalog yields an empty, non-error result. Exceeding TablesMax or
// encountering a malformed row is reported as ErrTooMany /
// ErrSchemaCorrupted respectively, matching the "whole-database" coherence the
// original schema_fetch enforces.
func SchemaFetch(tx *Tx) ([]*TableSchema, error) {
	b, err := catalogBucket(tx.stx, false)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, nil
	}

	var out []*TableSchema
	cur := b.Cursor()
	for k, v := cur.First(); k != nil; k, v = cur.Next() {
		if len(out) >= TablesMax {
			return nil, ErrTooMany
		}
		if !ValidateRecordBytes(v) {
			return nil, schemaErrf(catalogKeyShove(k), 0, ErrSchemaCorrupted, "malformed catalog row")
		}
		out = append(out, UnmarshalRecordBytes(v))
	}
	return out, nil
}

// schemaInsert persists a new schema row. The caller (CreateTable) is
// responsible for CSN stamping and for checking the row doesn't already
// exist.
func schemaInsert(tx *Tx, s *TableSchema) error {
	b, err := catalogBucket(tx.stx, true)
	if err != nil {
		return err
	}
	key := catalogKey(s.Shove)
	err = b.Put(key, s.Marshal())
	putCatalogKeyBuf(key)
	return err
}

// schemaDelete removes a table's catalog row. The caller (DropTable)
// drops the table's physical DBIs after this call succeeds.
func schemaDelete(tx *Tx, tableShove Shove) error {
	b, err := catalogBucket(tx.stx, false)
	if err != nil {
		return err
	}
	if b == nil {
		return ErrNotFound
	}
	key := catalogKey(tableShove)
	defer putCatalogKeyBuf(key)
	if b.Get(key) == nil {
		return ErrNotFound
	}
	return b.Delete(key)
}
