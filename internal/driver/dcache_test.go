package driver

import (
	"testing"

	"vlalign/internal/format"
	"vlalign/internal/source"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	key := blockKey("reg a;", format.DefaultOptions(), source.LineRange{})
	var out BlockPayload
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	res := format.Align("reg a;\nreg [3:0] bb;", format.DefaultOptions())
	if err := cache.Put(key, resultToPayload(res)); err != nil {
		t.Fatal(err)
	}
	ok, err := cache.Get(key, &out)
	if !ok || err != nil {
		t.Fatalf("Get after Put: ok=%v err=%v", ok, err)
	}
	got := payloadToResult(&out)
	if got.Text != res.Text || got.Mode != res.Mode || got.Aligned != res.Aligned {
		t.Errorf("got %+v, want %+v", got, res)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatal(err)
	}
	if ok, _ := cache.Get(key, &out); ok {
		t.Error("entry survived DropAll")
	}
}

func TestBlockKeyDependsOnOptions(t *testing.T) {
	a := blockKey("x", format.Options{}, source.LineRange{})
	b := blockKey("x", format.Options{AlignEndOfLine: true}, source.LineRange{})
	c := blockKey("x", format.Options{}, source.LineRange{Start: 2})
	if a == b || a == c {
		t.Error("key must change with options and selection")
	}
}

func TestNilDiskCache(t *testing.T) {
	var c *DiskCache
	if err := c.Put(blockKey("", format.Options{}, source.LineRange{}), &BlockPayload{}); err != nil {
		t.Error(err)
	}
	if ok, err := c.Get(blockKey("", format.Options{}, source.LineRange{}), &BlockPayload{}); ok || err != nil {
		t.Errorf("nil cache Get = %v, %v", ok, err)
	}
}
