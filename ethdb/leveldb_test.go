package ethdb

import "testing"

func TestLevelDB_PutGetDeleteBatch(t *testing.T) {
	db, err := OpenLevelDB(t.TempDir())
	if err != nil {
		t.Fatalf("OpenLevelDB: %v", err)
	}
	defer db.Close()

	if _, err := db.Get([]byte("missing")); err != ErrNotFound {
		t.Fatalf("Get missing = %v, want ErrNotFound", err)
	}

	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	v, err := db.Get([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("Get = %q, %v, want \"v\", nil", v, err)
	}

	batch := db.NewBatch()
	batch.Put([]byte("b1"), []byte("1"))
	batch.Put([]byte("b2"), []byte("2"))
	if err := batch.Write(); err != nil {
		t.Fatalf("batch Write: %v", err)
	}
	if ok, _ := db.Has([]byte("b1")); !ok {
		t.Fatal("b1 should exist after batch Write")
	}

	if err := db.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := db.Has([]byte("k")); ok {
		t.Fatal("k should not exist after Delete")
	}
}
