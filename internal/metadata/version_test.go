package metadata

import "testing"

func TestParseVersion(t *testing.T) {
	cases := []struct {
		input string
		want  Version
	}{
		{"4", Version{Major: 4}},
		{"4.2", Version{Major: 4, Minor: 2}},
		{"4.2.1", Version{Major: 4, Minor: 2, Build: 1}},
		{"1.0.3300.0", Version{Major: 1, Build: 3300}},
	}
	for _, tc := range cases {
		got, err := ParseVersion(tc.input)
		if err != nil {
			t.Fatalf("ParseVersion(%q) error: %v", tc.input, err)
		}
		if got != tc.want {
			t.Fatalf("ParseVersion(%q) = %v, want %v", tc.input, got, tc.want)
		}
	}
}

func TestParseVersionRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "a.b", "1.2.3.4.5", "1..2"} {
		if _, err := ParseVersion(input); err == nil {
			t.Fatalf("ParseVersion(%q) expected error", input)
		}
	}
}

func TestSpecialVersionOrRetargetable(t *testing.T) {
	cases := []struct {
		name string
		ref  AssemblyNameReference
		want bool
	}{
		{"all zero", AssemblyNameReference{Name: "A"}, true},
		{"all ones", AssemblyNameReference{Name: "A", Version: Version{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}}, true},
		{"retargetable", AssemblyNameReference{Name: "A", Version: Version{Major: 2}, Retargetable: true}, true},
		{"specific", AssemblyNameReference{Name: "A", Version: Version{Major: 4, Minor: 2}}, false},
		{"partially zero", AssemblyNameReference{Name: "A", Version: Version{Minor: 1}}, false},
	}
	for _, tc := range cases {
		if got := tc.ref.IsSpecialVersionOrRetargetable(); got != tc.want {
			t.Fatalf("%s: IsSpecialVersionOrRetargetable = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestVersionCompare(t *testing.T) {
	low := Version{Major: 2}
	high := Version{Major: 4, Minor: 2, Build: 1}
	if low.Compare(high) >= 0 {
		t.Fatalf("2.0 should order before 4.2.1")
	}
	if high.Compare(high) != 0 {
		t.Fatalf("version must compare equal to itself")
	}
	if high.Compare(low) <= 0 {
		t.Fatalf("4.2.1 should order after 2.0")
	}
}
