package time

import (
	"testing"
	"time"
)

func TestPtr(t *testing.T) {
	if Ptr(time.Time{}) != nil {
		t.Fatal("zero time must map to nil")
	}
	at := time.Date(2024, time.March, 15, 16, 0, 0, 0, time.UTC)
	p := Ptr(at)
	if p == nil || !p.Equal(at) {
		t.Fatalf("Ptr = %v", p)
	}
}

func TestDeref(t *testing.T) {
	if !Deref(nil).IsZero() {
		t.Fatal("nil must deref to the zero time")
	}
	at := time.Date(2024, time.March, 15, 16, 0, 0, 0, time.UTC)
	if got := Deref(&at); !got.Equal(at) {
		t.Fatalf("Deref = %v", got)
	}
}
