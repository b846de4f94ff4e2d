package errors

import (
	e "errors"
	"io"
	"testing"
)

func TestIsInvalidFormat(t *testing.T) {
	err := e.New("some error")
	if IsInvalidFormat(err) {
		t.Log("plain error is wrongly recognized as invalid format")
		t.Fail()
	}

	err = AsInvalidFormat(err, "bad packet")
	if !IsInvalidFormat(err) {
		t.Log("invalid format error is not recognized")
		t.Fail()
	}
}

func TestKindOf(t *testing.T) {
	if KindOf(nil) != None {
		t.Errorf("nil error must have kind None")
	}
	if KindOf(io.EOF) != Unknown {
		t.Errorf("plain error must have kind Unknown")
	}

	cases := []struct {
		err  error
		kind Kind
	}{
		{NewInvalidFormat("magic %q", "twCu"), InvalidFormat},
		{NewParamError("missing %v", "buffer"), Param},
		{NewValidationError("bad color %d", 22), Param},
		{NewFileError(io.ErrClosedPipe, "open %v", "x.oggtw"), File},
		{NewUnknown(io.ErrUnexpectedEOF, "transport"), Unknown},
	}
	for _, c := range cases {
		if KindOf(c.err) != c.kind {
			t.Errorf("wrong kind for %q: %v != %v", c.err, KindOf(c.err), c.kind)
		}
	}
}

func TestWrapKeepsKind(t *testing.T) {
	err := NewInvalidFormat("segment count %d out of range", 40000)
	wrapped := Wrap(err, "page %d", 3)

	if !IsInvalidFormat(wrapped) {
		t.Errorf("wrapped error lost its kind: %v", wrapped)
	}

	expected := "page 3: segment count 40000 out of range"
	if wrapped.Error() != expected {
		t.Errorf("unexpected message: %q != %q", wrapped.Error(), expected)
	}

	if Wrap(nil, "nothing") != nil {
		t.Errorf("wrapping nil must return nil")
	}
}

func TestFileErrorUnwraps(t *testing.T) {
	err := NewFileError(io.ErrShortWrite, "write %v", "book.oggtw")
	if !e.Is(err, io.ErrShortWrite) {
		t.Errorf("file error does not unwrap to its cause")
	}
}
