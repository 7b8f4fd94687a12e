// Package sqlite provides a SQLite-backed descriptor element.
//
// One Store owns the database handle and descriptor table of a SQLite
// file. Elements minted from it carry only their identity plus the
// database path and resolve vectors on demand. Batched retrieval goes
// through the BulkVectorProvider capability, reading whole type groups
// with chunked SELECT ... IN queries instead of one point lookup per
// element.
//
// # Usage
//
//	store, err := sqlite.Open(ctx, "descriptors.db")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer store.Close()
//
//	elem := store.Element("cnn-pool5", "img-0001")
//	if err := elem.SetVector(ctx, vec); err != nil {
//		log.Fatal(err)
//	}
//
// Elements gob-encode identity and database path only; a decoded
// element reattaches to its store through a process-wide registry,
// reopening the database when the path is not currently open.
package sqlite
