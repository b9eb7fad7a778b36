package source

import "testing"

func TestNil(t *testing.T) {
	var src Source = Nil{}

	if len(src.Batch()) != 0 {
		t.Error("expected empty batch")
	}
	if src.Next() {
		t.Error("expected Next to return false")
	}
	if size, err := src.TotalSize(); err != nil || size != 0 {
		t.Errorf("expected size 0, got %d (%v)", size, err)
	}
	if err := src.Close(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
