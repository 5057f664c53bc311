package fptable

import "sync"

// catalogKeyPool recycles the 8-byte catalog-key buffers used on every
// SchemaRead/schemaInsert/schemaDelete call, in the teacher's
// pool-a-fixed-size-byte-buffer style (see byteutil.go).
var catalogKeyPool = &sync.Pool{
	New: func() any {
		return make([]byte, 8)
	},
}

func getCatalogKeyBuf() []byte  { return catalogKeyPool.Get().([]byte)[:8] }
func putCatalogKeyBuf(b []byte) { catalogKeyPool.Put(b[:8]) } //nolint:staticcheck
