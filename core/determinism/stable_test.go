package determinism

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestSortedKeysOrder(t *testing.T) {
	m := map[string]int{"Power User": 2, "Admin": 1, "Standard User": 10}
	got := SortedKeys(m)
	want := []string{"Admin", "Power User", "Standard User"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("SortedKeys() = %v, want %v", got, want)
		}
	}
}

func TestRangeMapSortedStopsEarly(t *testing.T) {
	m := map[string]int{"a": 1, "b": 2, "c": 3}
	var seen []string
	RangeMapSorted(m, func(k string, _ int) bool {
		seen = append(seen, k)
		return k != "b"
	})
	if len(seen) != 2 || seen[1] != "b" {
		t.Errorf("expected iteration to stop after b, saw %v", seen)
	}
}

func TestHasherIsDeterministicAndSeparated(t *testing.T) {
	a := NewHasher("quote").Write("ab", "c").Sum()
	b := NewHasher("quote").Write("ab", "c").Sum()
	c := NewHasher("quote").Write("a", "bc").Sum()

	if a != b {
		t.Error("identical inputs produced different hashes")
	}
	if a == c {
		t.Error("part boundaries must change the hash")
	}
	if a.IsZero() {
		t.Error("computed hash should not be zero")
	}
}

func TestHasherDecimalCanonicalForm(t *testing.T) {
	x := NewHasher("n").WriteDecimal(decimal.RequireFromString("50.00")).Sum()
	y := NewHasher("n").WriteDecimal(decimal.NewFromInt(50)).Sum()
	if x != y {
		t.Error("equal decimals with different exponents must hash the same")
	}
}

func TestRoundCents(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"8.333333", "8.33"},
		{"2.675", "2.68"},
		{"-0.005", "-0.01"},
		{"250", "250"},
	}
	for _, tt := range tests {
		got := RoundCents(decimal.RequireFromString(tt.in))
		if !got.Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("RoundCents(%s) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
