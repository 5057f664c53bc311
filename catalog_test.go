package fptable

import (
	"errors"
	"testing"
)

func newTestSchema(t *testing.T, name string, csn uint64) *TableSchema {
	t.Helper()
	cs := &ColumnSet{}
	if err := cs.Describe("ID", TypeUint64, PrimaryUniqueOrderedObverse); err != nil {
		t.Fatal(err)
	}
	if err := cs.Finalize(); err != nil {
		t.Fatal(err)
	}
	return &TableSchema{
		CSN:     csn,
		Shove:   ShoveOfName(name, NameKindTable),
		Columns: cs.Columns(),
	}
}

func TestCatalog_InsertReadDelete(t *testing.T) {
	db := OpenMem(Options{IsTesting: true})
	defer db.Close()

	s := newTestSchema(t, "Widgets", 1)
	err := db.Update(func(tx *Tx) error {
		return schemaInsert(tx, s)
	})
	if err != nil {
		t.Fatalf("schemaInsert: %v", err)
	}

	err = db.View(func(tx *Tx) error {
		got, err := SchemaRead(tx, s.Shove)
		if err != nil {
			return err
		}
		if got.CSN != s.CSN || got.Shove != s.Shove {
			t.Fatalf("SchemaRead = %+v, wanted CSN=%d Shove=%#x", got, s.CSN, s.Shove)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View/SchemaRead: %v", err)
	}

	err = db.Update(func(tx *Tx) error {
		return schemaDelete(tx, s.Shove)
	})
	if err != nil {
		t.Fatalf("schemaDelete: %v", err)
	}

	err = db.View(func(tx *Tx) error {
		_, err := SchemaRead(tx, s.Shove)
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("SchemaRead after delete = %v, wanted ErrNotFound", err)
	}
}

func TestCatalog_SchemaRead_EmptyCatalogIsNotFound(t *testing.T) {
	db := OpenMem(Options{IsTesting: true})
	defer db.Close()

	err := db.View(func(tx *Tx) error {
		_, err := SchemaRead(tx, ShoveOfName("Nope", NameKindTable))
		return err
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("SchemaRead(empty catalog) = %v, wanted ErrNotFound", err)
	}
}

func TestCatalog_SchemaDelete_MissingRowIsNotFound(t *testing.T) {
	db := OpenMem(Options{IsTesting: true})
	defer db.Close()

	s := newTestSchema(t, "Widgets", 1)
	err := db.Update(func(tx *Tx) error {
		if err := schemaInsert(tx, s); err != nil {
			return err
		}
		return schemaDelete(tx, ShoveOfName("Other", NameKindTable))
	})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("schemaDelete(missing) = %v, wanted ErrNotFound", err)
	}
}

func TestCatalog_SchemaFetch_AscendingShoveOrder(t *testing.T) {
	db := OpenMem(Options{IsTesting: true})
	defer db.Close()

	names := []string{"Charlie", "Alpha", "Bravo"}
	err := db.Update(func(tx *Tx) error {
		for i, name := range names {
			if err := schemaInsert(tx, newTestSchema(t, name, uint64(i+1))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("inserting schemas: %v", err)
	}

	var fetched []*TableSchema
	err = db.View(func(tx *Tx) error {
		var err error
		fetched, err = SchemaFetch(tx)
		return err
	})
	if err != nil {
		t.Fatalf("SchemaFetch: %v", err)
	}
	if len(fetched) != len(names) {
		t.Fatalf("len(SchemaFetch()) = %d, wanted %d", len(fetched), len(names))
	}
	for i := 1; i < len(fetched); i++ {
		if fetched[i-1].Shove >= fetched[i].Shove {
			t.Fatalf("SchemaFetch not in ascending shove order at index %d: %#x >= %#x",
				i, fetched[i-1].Shove, fetched[i].Shove)
		}
	}
}

func TestCatalog_SchemaFetch_EmptyCatalogIsEmptyNotError(t *testing.T) {
	db := OpenMem(Options{IsTesting: true})
	defer db.Close()

	var fetched []*TableSchema
	err := db.View(func(tx *Tx) error {
		var err error
		fetched, err = SchemaFetch(tx)
		return err
	})
	if err != nil {
		t.Fatalf("SchemaFetch(empty) = %v, wanted nil", err)
	}
	if len(fetched) != 0 {
		t.Fatalf("SchemaFetch(empty) = %d rows, wanted 0", len(fetched))
	}
}

func TestCatalog_SchemaRead_CorruptedRow(t *testing.T) {
	db := OpenMem(Options{IsTesting: true})
	defer db.Close()

	s := newTestSchema(t, "Widgets", 1)
	err := db.Update(func(tx *Tx) error {
		b, err := catalogBucket(tx.stx, true)
		if err != nil {
			return err
		}
		buf := s.Marshal()
		buf[len(buf)-1] ^= 0xFF
		return b.Put(catalogKey(s.Shove), buf)
	})
	if err != nil {
		t.Fatalf("seeding corrupted row: %v", err)
	}

	err = db.View(func(tx *Tx) error {
		_, err := SchemaRead(tx, s.Shove)
		return err
	})
	if !errors.Is(err, ErrSchemaCorrupted) {
		t.Fatalf("SchemaRead(corrupted) = %v, wanted ErrSchemaCorrupted", err)
	}
}
