package receipt

import "testing"

func TestWidthMixedGlyphs(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"abc", 3},
		{"雞排", 4},
		{"雞排 Chicken", 12},
		{"合計", 4},
		{"12.50", 5},
	}
	for _, c := range cases {
		if got := Width(c.in); got != c.want {
			t.Fatalf("Width(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestPaddingHitsExactColumnWidth(t *testing.T) {
	for _, s := range []string{"abc", "雞排", "雞排X", "珍珠奶茶", ""} {
		for _, w := range []int{10, 16, 48} {
			if got := Width(PadRight(s, w)); got != w {
				t.Fatalf("PadRight(%q, %d) width = %d", s, w, got)
			}
			if got := Width(PadLeft(s, w)); got != w {
				t.Fatalf("PadLeft(%q, %d) width = %d", s, w, got)
			}
		}
	}
}

func TestPaddingNeverShrinks(t *testing.T) {
	s := "超過欄寬的很長字串"
	if got := PadRight(s, 4); got != s {
		t.Fatalf("PadRight should leave overlong input alone, got %q", got)
	}
}

func TestTruncateWithinBudget(t *testing.T) {
	cases := []struct {
		in    string
		width int
	}{
		{"超級無敵好吃豪華雞腿排飯", 16},
		{"a very long english item name", 16},
		{"雞排", 16},
	}
	for _, c := range cases {
		got := Truncate(c.in, c.width)
		if Width(got) > c.width {
			t.Fatalf("Truncate(%q, %d) = %q overshoots (%d units)", c.in, c.width, got, Width(got))
		}
		if Width(c.in) <= c.width && got != c.in {
			t.Fatalf("Truncate(%q, %d) should not change short input", c.in, c.width)
		}
		if Width(c.in) > c.width && got[len(got)-3:] != "..." {
			t.Fatalf("Truncate(%q, %d) = %q missing trailing ellipsis", c.in, c.width, got)
		}
	}
}

func TestTruncateCJKBoundary(t *testing.T) {
	// 7 wide glyphs = 14 units; budget 10 leaves 7 units for glyphs after
	// the 3-unit ellipsis, i.e. 3 glyphs (6 units).
	got := Truncate("測測測測測測測", 10)
	if got != "測測測..." {
		t.Fatalf("Truncate = %q, want 測測測...", got)
	}
}
