package pools

import "testing"

func TestGetInt32Slice_Length(t *testing.T) {
	Pools.Reset()
	for _, n := range []int{0, 1, 10, 1024, 5000} {
		s := Pools.GetInt32Slice(n)
		if len(s) != n {
			t.Errorf("GetInt32Slice(%d) returned length %d", n, len(s))
		}
		Pools.ReturnInt32Slice(s)
	}
}

func TestReturnInt32Slice_Reused(t *testing.T) {
	Pools.Reset()
	s := make([]int32, 10, 4096)
	Pools.ReturnInt32Slice(s)

	got := Pools.GetInt32Slice(100)
	if len(got) != 100 {
		t.Fatalf("expected length 100, got %d", len(got))
	}
	// sync.Pool may drop items, so only the length is guaranteed.
	if cap(got) < 100 {
		t.Errorf("capacity %d smaller than requested length", cap(got))
	}
}

func TestGetSorter(t *testing.T) {
	Pools.Reset()
	s := Pools.GetSorter()
	if s == nil {
		t.Fatal("expected a sorter")
	}
	data := []int32{4, 2, 3, 1}
	s.Sort(data)
	Pools.ReturnSorter(s)
	for i, want := range []int32{1, 2, 3, 4} {
		if data[i] != want {
			t.Errorf("index %d: expected %d, got %d", i, want, data[i])
		}
	}
}

func TestGrowInt32Slice_KeepsEntry(t *testing.T) {
	small := make([]int32, 0, 4)
	slicePtr := &small

	got := growInt32Slice(slicePtr, 5000)
	if len(got) != 5000 {
		t.Fatalf("expected length 5000, got %d", len(got))
	}
	if cap(*slicePtr) < 5000 {
		t.Fatalf("pooled entry not grown: capacity %d", cap(*slicePtr))
	}
	if &got[0] != &(*slicePtr)[:1][0] {
		t.Error("returned slice does not share the pooled backing array")
	}

	again := growInt32Slice(slicePtr, 100)
	if len(again) != 100 || &again[0] != &got[0] {
		t.Error("smaller request should reuse the grown backing array")
	}
}
