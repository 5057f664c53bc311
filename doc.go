/*
Package fptable implements a typed-table schema layer on top of a
memory-mapped B-tree key-value store (Bolt), in the spirit of libfpta's
schema subsystem built on MDBX.

We implement:

 1. Shoves, 64-bit identifiers that fold a seeded hash of an uppercased
    table or column name together with either a table sentinel or a
    (data type, index kind) pair. A table and each of its indexes get a
    small family of related shoves, one per physical B-tree.

 2. A column-set builder (ColumnSet) that accumulates column
    descriptions, places the primary key at slot 0 and any secondary
    indexes contiguously after it, and validates the whole set as one
    composite rule (contiguity, uniqueness, index-count limits, reverse-
    index eligibility) before a table is ever created.

 3. Persisted, checksummed schema records (TableSchema), one per table,
    held in a distinguished system bucket called the schema catalog.

 4. A fixed-size, open-addressed handle cache mapping a shove to a
    small process-local Handle, so repeated lookups of the same table or
    index can skip the engine's bucket-name resolution.

 5. Name handles (TableHandle, ColumnHandle): client-held references
    that resolve lazily against a transaction and stay valid across
    transactions by re-validating their schema version on Refresh.

 6. CREATE TABLE / DROP TABLE, the only schema-mutating operations,
    each requiring a schema-level transaction that is globally exclusive
    with any other schema change.

# Technical Details

**Buckets.**
Each physical B-tree (a table's primary data, or one of its secondary
indexes) is a root-level Bolt bucket, named by rendering its shove
through a 64-character alphabet. The schema catalog is a second,
distinguished root bucket keyed by 8-byte table shove.

**Handles are never reused.**
A Handle is assigned the first time its bucket is opened and is retired,
not recycled, when the bucket is dropped — mirroring the "ordinal
numbers are never reused" rule the original implementation applies to
index slots.

**Row encoding.**
Full row CRUD is out of scope for this package; the one codec it does
carry (EncodeRow/DecodeRow, an ordered msgpack tuple) exists solely to
let CheckRowComplete validate that a proposed row supplies every
non-indexed, non-nullable column before a write is attempted elsewhere.
*/
package fptable
