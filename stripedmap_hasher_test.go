package stripedmap

import (
	"math"
	"testing"
)

func TestDefaultHasher_IntegerKeys(t *testing.T) {
	if h := defaultHasher[int]()(12345, 0); h != 12345 {
		t.Fatalf("int key hash was expected to be its value: %d", h)
	}
	if h := defaultHasher[uint8]()(200, 0); h != 200 {
		t.Fatalf("uint8 key hash was expected to be its value: %d", h)
	}
	if h := defaultHasher[int16]()(-1, 0); h != math.MaxUint16 {
		t.Fatalf("int16 key hash was expected to be zero-extended: %d", h)
	}
	if h := defaultHasher[uint32]()(math.MaxUint32, 0); h != math.MaxUint32 {
		t.Fatalf("uint32 key hash was expected to be its value: %d", h)
	}
	if h := defaultHasher[uint64]()(1<<40|7, 0); h == 0 {
		t.Fatal("uint64 key hash was not expected to be zero")
	}
}

func TestDefaultHasher_Consistent(t *testing.T) {
	hs := defaultHasher[string]()
	for _, k := range testData {
		if hs(k, 1) != hs(k, 2) {
			t.Fatalf("hash of %q depends on the seed argument", k)
		}
		if hs(k, 0) != hs(string([]byte(k)), 0) {
			t.Fatalf("equal keys hash differently: %q", k)
		}
	}

	hsStruct := defaultHasher[structKey]()
	a := structKey{Service: 1, Instance: 2}
	b := structKey{Service: 1, Instance: 2}
	if hsStruct(a, 0) != hsStruct(b, 0) {
		t.Fatal("equal struct keys hash differently")
	}
}

func TestDefaultHasher_Distribution(t *testing.T) {
	const stripes = 8
	hs := defaultHasher[string]()
	var counts [stripes]int
	for _, k := range testDataLarge {
		counts[hs(k, 0)%stripes]++
	}
	expected := len(testDataLarge) / stripes
	for i, c := range counts {
		if c < expected*8/10 || c > expected*12/10 {
			t.Fatalf("poor stripe distribution: stripe %d has %d keys, expected ~%d", i, c, expected)
		}
	}
}
