package audio

import "testing"

func TestDecimateNoOp(t *testing.T) {
	var dec Decimator
	buf := []int16{1, 2, 3, 4, 5, 6, 7, 8}
	original := append([]int16(nil), buf...)

	count := dec.Decimate(buf, 1.0)

	if count != len(original) {
		t.Errorf("expected count %d, got %d", len(original), count)
	}
	for i, v := range original {
		if buf[i] != v {
			t.Errorf("sample %d changed: expected %d, got %d", i, v, buf[i])
		}
	}
	if dec.Emitted() != uint64(len(original)) {
		t.Errorf("expected %d emitted, got %d", len(original), dec.Emitted())
	}
	if dec.Dropped() != 0 {
		t.Errorf("expected 0 dropped, got %d", dec.Dropped())
	}
}

func TestDecimateEveryOther(t *testing.T) {
	var dec Decimator
	buf := []int16{10, 11, 12, 13, 14, 15, 16, 17}

	count := dec.Decimate(buf, 2.0)

	if count != 4 {
		t.Fatalf("expected 4 samples, got %d", count)
	}
	expected := []int16{10, 12, 14, 16}
	for i, v := range expected {
		if buf[i] != v {
			t.Errorf("sample %d: expected %d, got %d", i, v, buf[i])
		}
	}
	if dec.Dropped() != 4 {
		t.Errorf("expected 4 dropped, got %d", dec.Dropped())
	}
}

func TestDecimateFractionalRatio(t *testing.T) {
	// The spec's pinned scenario: 44100 Hz at 2.0x clamps to 48000 Hz with
	// ratio 88200/48000 = 1.8375. A 2048-sample chunk keeps 1115 samples.
	var dec Decimator
	buf := make([]int16, 2048)
	for i := range buf {
		buf[i] = int16(i)
	}

	count := dec.Decimate(buf, 1.8375)

	if count != 1115 {
		t.Errorf("expected 1115 samples, got %d", count)
	}
	if dec.Emitted() != 1115 {
		t.Errorf("expected 1115 emitted, got %d", dec.Emitted())
	}
	if dec.Dropped() != 933 {
		t.Errorf("expected 933 dropped, got %d", dec.Dropped())
	}
}

func TestDecimateConservation(t *testing.T) {
	ratios := []float32{1.0, 1.1, 1.5, 1.8375, 2.0, 3.675, 4.0}
	sizes := []int{1, 7, 100, 1024, 2048}

	for _, ratio := range ratios {
		for _, size := range sizes {
			var dec Decimator
			buf := make([]int16, size)
			total := 0

			// Several chunks to confirm counters accumulate.
			for chunk := 0; chunk < 3; chunk++ {
				dec.Decimate(buf[:size], ratio)
				total += size
			}

			if dec.Emitted()+dec.Dropped() != uint64(total) {
				t.Errorf("ratio=%v size=%d: emitted %d + dropped %d != offered %d",
					ratio, size, dec.Emitted(), dec.Dropped(), total)
			}
		}
	}
}

func TestDecimateCursorResetsPerChunk(t *testing.T) {
	// The fractional cursor restarts at zero for every chunk, so two chunks
	// of the same size always emit the same count even at a fractional ratio.
	var dec Decimator
	buf := make([]int16, 100)

	first := dec.Decimate(buf, 1.5)
	second := dec.Decimate(buf[:100], 1.5)

	if first != second {
		t.Errorf("expected identical per-chunk counts, got %d then %d", first, second)
	}
}

func TestDecimateEmptyChunk(t *testing.T) {
	var dec Decimator
	if count := dec.Decimate(nil, 2.0); count != 0 {
		t.Errorf("expected 0 for empty chunk, got %d", count)
	}
}

func TestDecimatorReset(t *testing.T) {
	var dec Decimator
	dec.Decimate(make([]int16, 64), 2.0)
	dec.Reset()

	if dec.Emitted() != 0 || dec.Dropped() != 0 {
		t.Errorf("expected zeroed counters after reset, got emitted=%d dropped=%d",
			dec.Emitted(), dec.Dropped())
	}
}
