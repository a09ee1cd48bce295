package columnar

import "testing"

func TestBitmapDefaultsAllValid(t *testing.T) {
	b := NewBitmap(10)
	for i := 0; i < 10; i++ {
		if !b.RowIsValid(i) {
			t.Errorf("row %d: want valid, got invalid", i)
		}
	}
}

func TestBitmapSetValid(t *testing.T) {
	b := NewBitmap(5)
	b.SetValid(2, false)
	for i := 0; i < 5; i++ {
		want := i != 2
		if b.RowIsValid(i) != want {
			t.Errorf("row %d: RowIsValid() = %v, want %v", i, b.RowIsValid(i), want)
		}
	}
}

func TestNilBitmapIsAllValid(t *testing.T) {
	var b *Bitmap
	if !b.RowIsValid(0) {
		t.Error("nil bitmap: RowIsValid(0) = false, want true")
	}
}

// TestFlatNullRoundTrip covers the bit-packed-validity <-> flat-byte-
// nullmask round trip the bridge relies on when materializing and
// flattening FFIVectors.
func TestFlatNullRoundTrip(t *testing.T) {
	b := NewBitmap(8)
	b.SetValid(1, false)
	b.SetValid(6, false)

	flat := make([]byte, 8)
	b.ToFlatNulls(flat)

	want := []byte{0, 1, 0, 0, 0, 0, 1, 0}
	for i := range want {
		if flat[i] != want[i] {
			t.Fatalf("ToFlatNulls()[%d] = %d, want %d", i, flat[i], want[i])
		}
	}

	back := FromFlatNulls(flat)
	for i := 0; i < 8; i++ {
		if back.RowIsValid(i) != b.RowIsValid(i) {
			t.Errorf("row %d: round-tripped RowIsValid() = %v, want %v", i, back.RowIsValid(i), b.RowIsValid(i))
		}
	}
}

func TestBitmapCrossesWordBoundary(t *testing.T) {
	b := NewBitmap(130)
	b.SetValid(64, false)
	b.SetValid(129, false)
	if b.RowIsValid(64) || b.RowIsValid(129) {
		t.Error("rows 64 and 129 should be invalid")
	}
	if !b.RowIsValid(63) || !b.RowIsValid(128) {
		t.Error("rows 63 and 128 should remain valid")
	}
}
