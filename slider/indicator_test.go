package slider

import "testing"

func TestIndicatorSet(t *testing.T) {
	var selected []int
	set := NewIndicatorSet(3, func(i int) { selected = append(selected, i) })

	if set.Len() != 3 {
		t.Fatalf("Len = %d, want 3", set.Len())
	}
	got := set.Indicators()
	if !got[0].Active || got[1].Active || got[2].Active {
		t.Errorf("initial indicators = %+v, want only first active", got)
	}
	if got[2].Label != "Go to slide 3" {
		t.Errorf("label = %q", got[2].Label)
	}

	set.Set(0, 2)
	got = set.Indicators()
	if got[0].Active || !got[2].Active {
		t.Errorf("after Set(0, 2) = %+v", got)
	}

	// Copies must not alias the set.
	got[1].Active = true
	if set.Indicators()[1].Active {
		t.Error("Indicators returned an aliased slice")
	}

	if !set.Click(1) || set.Click(3) || set.Click(-1) {
		t.Error("Click bounds check failed")
	}
	if len(selected) != 1 || selected[0] != 1 {
		t.Errorf("selected = %v, want [1]", selected)
	}
}

func TestIndicatorSetEmpty(t *testing.T) {
	set := NewIndicatorSet(0, nil)
	if set.Len() != 0 || set.Click(0) {
		t.Error("empty set should have no clickable indicators")
	}
}
