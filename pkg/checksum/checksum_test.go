package checksum

import "testing"

func TestSum(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Sum([]byte("abc")); got != want {
		t.Errorf("Sum(abc) = %s, want %s", got, want)
	}
}

func TestShort(t *testing.T) {
	if got := Short(Sum([]byte("abc"))); got != "ba7816bf8f01" {
		t.Errorf("Short = %s", got)
	}

	if got := Short("abc"); got != "abc" {
		t.Errorf("Short(abc) = %s", got)
	}
}
