package fonts

import "testing"

func TestFaceCached(t *testing.T) {
	f1, err := Face(14)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	f2, err := Face(14)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if f1 != f2 {
		t.Error("Face should return the cached face for the same size")
	}
}

func TestFaceDefaultSize(t *testing.T) {
	f, err := Face(0)
	if err != nil {
		t.Fatalf("Face(0): %v", err)
	}
	def, _ := Face(DefaultSize)
	if f != def {
		t.Error("Face(0) should fall back to DefaultSize")
	}
}

func TestMeasure(t *testing.T) {
	f, err := Face(12)
	if err != nil {
		t.Fatalf("Face: %v", err)
	}
	if w := Measure(f, ""); w != 0 {
		t.Errorf("Measure(\"\") = %v, want 0", w)
	}
	short := Measure(f, "ab")
	long := Measure(f, "abcdef")
	if short <= 0 || long <= short {
		t.Errorf("widths not monotonic: short=%v long=%v", short, long)
	}
}

func TestGoRegularTTF(t *testing.T) {
	if len(GoRegularTTF()) == 0 {
		t.Error("GoRegularTTF() returned no data")
	}
}
