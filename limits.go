package fptable

// Compile-time limits (SPEC_FULL.md "Configuration"). DefaultCacheSize
// and allowDotInNamesDefault are the only two with a runtime override in
// Options (CacheSize, AllowDotInNames); MaxIndexes/MaxCols/NameLenMin/
// NameLenMax/TablesMax are baked into the wire format (column-shove
// arrays, the catalog's size bound) and stay fixed.
const (
	NameLenMin = 1
	NameLenMax = 64

	MaxIndexes = 8
	MaxCols    = 64

	DefaultCacheSize = 1031 // prime, per the open-addressing probe sequence
	TablesMax        = 4096

	// allowDotInNamesDefault mirrors the compile-time FPTA_ALLOW_DOT4NAMES
	// policy switch from the original implementation. It is the fallback
	// used by TableByName/ColumnByName/ColumnSet.Describe, which run
	// without a DB in hand; every DDL/open call site that does have a
	// transaction (OpenTable, OpenColumn, CreateTable, DropTable) checks
	// against the owning DB's Options.AllowDotInNames instead.
	allowDotInNamesDefault = false
)

const (
	schemaSignature = uint32(0x46505441) // "FPTA" - a format tag, not a version
	schemaChecksumSeed = uint64(0x9a17d1b2c4e6f083)
)
