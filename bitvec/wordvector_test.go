package bitvec

import "testing"

func TestWordVectorGetSet(t *testing.T) {
	wv := NewWordVector(10, 5)
	for i := 0; i < 10; i++ {
		wv.Set(i, uint64(i*3%32))
	}
	for i := 0; i < 10; i++ {
		want := uint64(i * 3 % 32)
		if got := wv.Get(i); got != want {
			t.Fatalf("Get(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestWordVectorWidthStraddlesWord(t *testing.T) {
	// width 40 forces several words to straddle the 64-bit boundary.
	wv := NewWordVector(20, 40)
	for i := 0; i < 20; i++ {
		wv.Set(i, uint64(i)*12345)
	}
	for i := 0; i < 20; i++ {
		want := uint64(i) * 12345
		if got := wv.Get(i); got != want {
			t.Fatalf("Get(%d) = %d, want %d", i, got, want)
		}
	}
}

func TestWordVectorBitAt(t *testing.T) {
	wv := NewWordVector(130, 1)
	pattern := []int{0, 1, 63, 64, 65, 127, 128, 129}
	for _, i := range pattern {
		wv.SetBit(i, true)
	}
	for i := 0; i < 130; i++ {
		want := false
		for _, p := range pattern {
			if p == i {
				want = true
			}
		}
		if got := wv.BitAt(i); got != want {
			t.Fatalf("BitAt(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestWordVectorSetOutOfRangePanics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatal("expected panic setting a value too large for the word width")
		}
	}()
	wv := NewWordVector(1, 3)
	wv.Set(0, 8) // 8 does not fit in 3 bits
}

func TestBitsPerValue(t *testing.T) {
	cases := map[int]uint{0: 1, 1: 1, 2: 2, 3: 2, 4: 3, 63: 6, 64: 7}
	for n, want := range cases {
		if got := BitsPerValue(n); got != want {
			t.Fatalf("BitsPerValue(%d) = %d, want %d", n, got, want)
		}
	}
}
