// Package bolt provides a bytestore.ByteStore implementation backed by a
// bbolt database. Each store persists its blob under a name in a shared
// bucket, so many stores can share one database file.
//
// # Usage
//
//	db, err := bolt.Open("descriptors.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	store, err := bolt.NewStore(db, "cache")
package bolt
