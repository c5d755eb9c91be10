package util

import "testing"

func TestBoundedBufferWithinCap(t *testing.T) {
	b := NewBoundedBuffer(1024)
	n, err := b.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("write within cap failed: %v", err)
	}
	if n != 5 {
		t.Errorf("n = %d, want 5", n)
	}
	if b.Exceeded() {
		t.Error("buffer within cap should not report exceeded")
	}
}

func TestBoundedBufferExceedsCap(t *testing.T) {
	b := NewBoundedBuffer(4)
	if _, err := b.Write([]byte("hello")); err == nil {
		t.Fatal("write exceeding cap should fail")
	}
	if !b.Exceeded() {
		t.Error("buffer should report exceeded after a rejected write")
	}
	if b.Reason() == "" {
		t.Error("exceeded buffer should carry a reason")
	}
}

func TestBoundedBufferAccumulatesToCap(t *testing.T) {
	b := NewBoundedBuffer(10)
	if _, err := b.Write([]byte("12345")); err != nil {
		t.Fatalf("first write failed: %v", err)
	}
	if _, err := b.Write([]byte("67890")); err != nil {
		t.Fatalf("second write filling the cap exactly failed: %v", err)
	}
	if b.Exceeded() {
		t.Error("writes landing exactly on the cap should not be exceeded")
	}
	if _, err := b.Write([]byte("x")); err == nil {
		t.Fatal("write past the cap should fail")
	}
}

func TestBoundedBufferUnbounded(t *testing.T) {
	b := NewBoundedBuffer(0)
	if _, err := b.Write(make([]byte, 1<<20)); err != nil {
		t.Fatalf("unbounded buffer rejected a write: %v", err)
	}
	if b.Exceeded() {
		t.Error("unbounded buffer should never report exceeded")
	}
}
