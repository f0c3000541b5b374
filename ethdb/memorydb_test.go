package ethdb

import "testing"

func TestMemoryDB_PutGetDelete(t *testing.T) {
	db := NewMemoryDB()

	if ok, _ := db.Has([]byte("k")); ok {
		t.Fatal("key should not exist yet")
	}
	if _, err := db.Get([]byte("k")); err != ErrNotFound {
		t.Fatalf("Get missing key = %v, want ErrNotFound", err)
	}

	if err := db.Put([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, _ := db.Has([]byte("k")); !ok {
		t.Fatal("key should exist after Put")
	}
	v, err := db.Get([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("Get = %q, %v, want \"v\", nil", v, err)
	}

	if err := db.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if ok, _ := db.Has([]byte("k")); ok {
		t.Fatal("key should not exist after Delete")
	}
}

func TestMemoryDB_GetReturnsCopyNotAlias(t *testing.T) {
	db := NewMemoryDB()
	db.Put([]byte("k"), []byte("v"))
	v, _ := db.Get([]byte("k"))
	v[0] = 'X'
	v2, _ := db.Get([]byte("k"))
	if string(v2) != "v" {
		t.Fatalf("mutating Get's result affected stored value: %q", v2)
	}
}

func TestMemoryDB_Len(t *testing.T) {
	db := NewMemoryDB()
	if db.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", db.Len())
	}
	db.Put([]byte("a"), []byte("1"))
	db.Put([]byte("b"), []byte("2"))
	if db.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", db.Len())
	}
}

func TestMemoryDB_Batch(t *testing.T) {
	db := NewMemoryDB()
	db.Put([]byte("a"), []byte("old"))

	batch := db.NewBatch()
	batch.Put([]byte("a"), []byte("new"))
	batch.Put([]byte("b"), []byte("2"))
	batch.Delete([]byte("a"))
	if batch.ValueSize() == 0 {
		t.Fatal("ValueSize should account for staged ops")
	}

	// Uncommitted batch ops must not be visible yet.
	v, _ := db.Get([]byte("a"))
	if string(v) != "old" {
		t.Fatalf("Get before Write = %q, want \"old\"", v)
	}

	if err := batch.Write(); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if ok, _ := db.Has([]byte("a")); ok {
		t.Fatal("\"a\" should be deleted after batch Write (Put then Delete, in order)")
	}
	v2, err := db.Get([]byte("b"))
	if err != nil || string(v2) != "2" {
		t.Fatalf("Get(b) = %q, %v, want \"2\", nil", v2, err)
	}

	batch.Reset()
	if batch.ValueSize() != 0 {
		t.Fatal("Reset should clear ValueSize")
	}
}
