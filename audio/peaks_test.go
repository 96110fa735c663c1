// SPDX-License-Identifier: EPL-2.0

package audio

import "testing"

func TestPeaks(t *testing.T) {
	t.Parallel()

	buf, err := NewBuffer(8000, [][]float32{
		{0.1, -0.2, 0.9, 0.4, -0.8, 0.0},
		{0.1, -0.2, 0.9, 0.4, -0.8, 0.0},
	})
	if err != nil {
		t.Fatal(err)
	}

	got := Peaks(buf, 3)
	want := []Peak{
		{Min: -0.2, Max: 0.1},
		{Min: 0.4, Max: 0.9},
		{Min: -0.8, Max: 0.0},
	}

	if len(got) != len(want) {
		t.Fatalf("len(Peaks()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Peaks()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPeaks_MoreColumnsThanFrames(t *testing.T) {
	t.Parallel()

	buf, _ := NewBuffer(8000, [][]float32{{0.5, -0.5}})
	got := Peaks(buf, 4)

	if len(got) != 4 {
		t.Fatalf("len(Peaks()) = %d, want 4", len(got))
	}
	if got[0] != (Peak{0.5, 0.5}) || got[1] != (Peak{-0.5, -0.5}) {
		t.Errorf("Peaks() leading columns = %+v", got[:2])
	}
	if got[2] != (Peak{}) || got[3] != (Peak{}) {
		t.Errorf("Peaks() trailing columns = %+v, want zero", got[2:])
	}

	if Peaks(buf, 0) != nil {
		t.Error("Peaks(n=0) should be nil")
	}
}
