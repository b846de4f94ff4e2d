package schema

import (
	"bytes"
	"testing"

	"github.com/google/uuid"

	"github.com/akeil/twtw/internal/errors"
	"github.com/akeil/twtw/pkg/photo"
)

func TestDocHead(t *testing.T) {
	h := NewDocHead()
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != DocHeadSize {
		t.Errorf("unexpected size for doc head: %d", len(data))
	}
	if !bytes.Equal(data[:8], []byte("twdoc--\x00")) {
		t.Errorf("unexpected magic: %q", data[:8])
	}

	var h2 DocHead
	err = h2.UnmarshalBinary(data[:20])
	if err != nil {
		t.Fatal(err)
	}
	if h2 != *h {
		t.Errorf("unexpected value for doc head: %+v", h2)
	}
	if h2.Pages != 20 || h2.GranulesPerPage != 1000 || h2.VersionMajor != 1 {
		t.Errorf("unexpected defaults: %+v", h2)
	}

	err = h2.UnmarshalBinary(data[:19])
	if !errors.IsInvalidFormat(err) {
		t.Errorf("expected InvalidFormat for short head, got %v", err)
	}
}

func TestPicHead(t *testing.T) {
	h := &PicHead{SoundDuration: 12, NumCurves: 3, NumPoints: UnknownPoints, NumPhotos: 1}
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != PicHeadSize {
		t.Errorf("unexpected size for pic head: %d", len(data))
	}
	if !bytes.Equal(data[20:24], []byte{0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("unexpected point count bytes: %x", data[20:24])
	}

	var h2 PicHead
	err = h2.UnmarshalBinary(data)
	if err != nil {
		t.Fatal(err)
	}
	if h2 != *h {
		t.Errorf("unexpected value for pic head: %+v", h2)
	}

	data[0] ^= 0xff
	err = h2.UnmarshalBinary(data)
	if !errors.IsInvalidFormat(err) {
		t.Errorf("expected InvalidFormat for bad magic, got %v", err)
	}
}

func TestDocBone(t *testing.T) {
	b := NewDocBone()
	b.Flags = 0x0102
	b.DocumentID = uuid.New()
	for i := 0; i < NumPages; i++ {
		b.PicSerials[i] = uint32(1000 + i)
	}
	b.SpeexSerials[3] = 77
	b.Set(KeyAuthor, "Pauli")
	b.Set(KeyTitle, "Äpfel")

	data, err := b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	md := "author\x00Pauli\x00title\x00Äpfel\x00"
	if len(data) != DocBoneBaseSize+len(md) {
		t.Errorf("unexpected size for bone: %d", len(data))
	}
	if !bytes.HasSuffix(data, []byte(md)) {
		t.Errorf("unexpected metadata: %q", data[DocBoneBaseSize:])
	}

	var b2 DocBone
	err = b2.UnmarshalBinary(data)
	if err != nil {
		t.Fatal(err)
	}
	if b2.Flags != b.Flags || b2.PicSerials != b.PicSerials || b2.SpeexSerials != b.SpeexSerials {
		t.Errorf("unexpected stream table: %+v", b2)
	}
	if b2.SpeexSerials[0] != NoStream {
		t.Errorf("unexpected speex serial for page 0: %d", b2.SpeexSerials[0])
	}
	if b2.DocumentID != b.DocumentID {
		t.Errorf("unexpected document id %v", b2.DocumentID)
	}
	if b2.Creator != DefaultCreator || b2.Canvas != (Rect{0, 0, 640, 360}) {
		t.Errorf("unexpected creator or canvas: %q %v", b2.Creator, b2.Canvas)
	}
	if v, _ := b2.Get(KeyTitle); v != "Äpfel" {
		t.Errorf("unexpected title %q", v)
	}
	if v, _ := b2.Get(KeyAuthor); v != "Pauli" {
		t.Errorf("unexpected author %q", v)
	}
}

func TestDocBoneNoMetadata(t *testing.T) {
	data, err := NewDocBone().MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	// the length field is optional without fields
	var b DocBone
	err = b.UnmarshalBinary(data[:len(data)-2])
	if err != nil {
		t.Fatal(err)
	}
	if len(b.Metadata) != 0 {
		t.Errorf("unexpected metadata: %v", b.Metadata)
	}

	err = b.UnmarshalBinary(data[:len(data)-3])
	if !errors.IsInvalidFormat(err) {
		t.Errorf("expected InvalidFormat for short bone, got %v", err)
	}
}

func TestDocBoneTruncatedMetadata(t *testing.T) {
	b := NewDocBone()
	b.Set(KeyAuthor, "x")
	b.Set(KeyTitle, "y")
	data, err := b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}

	// declare three fields; the incomplete third pair is dropped
	data[14] = 3
	var b2 DocBone
	err = b2.UnmarshalBinary(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(b2.Metadata) != 2 {
		t.Errorf("unexpected metadata: %v", b2.Metadata)
	}

	// metadata length beyond the packet
	data[DocBoneBaseSize-2] = 0xff
	err = b2.UnmarshalBinary(data)
	if !errors.IsInvalidFormat(err) {
		t.Errorf("expected InvalidFormat, got %v", err)
	}

	b.Set(KeyTitle, "a\x00b")
	_, err = b.MarshalBinary()
	if !errors.IsParamError(err) {
		t.Errorf("expected ParamError for NUL in value, got %v", err)
	}
}

func TestSkeleton(t *testing.T) {
	h := NewFishead()
	data, err := h.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != FisheadSize {
		t.Errorf("unexpected size for fishead: %d", len(data))
	}
	if Classify(data) != Skeleton {
		t.Errorf("unexpected kind: %v", Classify(data))
	}
	var h2 Fishead
	if err := h2.UnmarshalBinary(data); err != nil || h2 != *h {
		t.Errorf("unexpected fishead: %+v (%v)", h2, err)
	}

	// older skeleton versions are not recognized
	data[8] = 2
	if Classify(data) != Unknown {
		t.Errorf("expected unknown for skeleton v2")
	}

	b := NewFisbone(4711, 2, DocumentContentType)
	data, err = b.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	want := "Content-Type: application/x-twtw.document\r\n"
	if len(data) != FisboneSize+len(want) || string(data[FisboneSize:]) != want {
		t.Errorf("unexpected fisbone headers: %q", data[FisboneSize:])
	}
	var b2 Fisbone
	err = b2.UnmarshalBinary(data)
	if err != nil {
		t.Fatal(err)
	}
	if b2.Serial != 4711 || b2.HeaderPackets != 2 || b2.GranuleRateNum != 100 || b2.StartGranule != 100 {
		t.Errorf("unexpected fisbone: %+v", b2)
	}
	if b2.ContentType() != DocumentContentType {
		t.Errorf("unexpected content type %q", b2.ContentType())
	}
}

func TestClassify(t *testing.T) {
	head, _ := NewDocHead().MarshalBinary()
	pic, _ := (&PicHead{}).MarshalBinary()
	cases := []struct {
		data []byte
		kind StreamKind
	}{
		{head, Document},
		{pic, Picture},
		{[]byte("Speex   1.2"), Speex},
		{[]byte("twdoc"), Unknown},
		{nil, Unknown},
		{[]byte("OpusHead"), Unknown},
	}
	for i, c := range cases {
		if k := Classify(c.data); k != c.kind {
			t.Errorf("unexpected kind for case %d: %v != %v", i, k, c.kind)
		}
	}
}

func TestRecords(t *testing.T) {
	p := NewPhotoRecord(&photo.Compressed{
		FourCC:       photo.TwYZ,
		Width:        8,
		Height:       4,
		OriginalSize: 52,
		Data:         []byte{1, 2, 3},
	})
	c1 := &CurveRecord{OriginalSize: 20, Data: []byte{9, 9}}
	c2 := &CurveRecord{OriginalSize: 40, Metadata: []byte("md"), Data: []byte{7}}

	data := MarshalRecords(p, c1, c2)
	size := PhotoHeaderSize + 3 + CurveHeaderSize + 2 + CurveHeaderSize + 2 + 1
	if len(data) != size {
		t.Errorf("unexpected size for records: %d != %d", len(data), size)
	}
	if !bytes.Equal(data[26:34], []byte{0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("unexpected dst rect: %x", data[26:34])
	}

	recs, err := ScanRecords(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 3 {
		t.Fatalf("unexpected number of records: %d", len(recs))
	}
	p2, ok := recs[0].(*PhotoRecord)
	if !ok {
		t.Fatalf("unexpected record type %T", recs[0])
	}
	if p2.Width != 8 || p2.Height != 4 || p2.RowBytes != 16 || p2.Compressed != photo.TwYZ || p2.PixelFormat != photo.UYVY {
		t.Errorf("unexpected photo record: %+v", p2)
	}
	if p2.Photo().OriginalSize != 52 || !bytes.Equal(p2.Data, []byte{1, 2, 3}) {
		t.Errorf("unexpected photo data: %+v", p2)
	}
	c3 := recs[2].(*CurveRecord)
	if c3.OriginalSize != 40 || string(c3.Metadata) != "md" || !bytes.Equal(c3.Data, []byte{7}) {
		t.Errorf("unexpected curve record: %+v", c3)
	}

	// empty packet has no records
	recs, err = ScanRecords(nil)
	if err != nil || len(recs) != 0 {
		t.Errorf("unexpected result for empty data: %v %v", recs, err)
	}
}

func TestRecordsCorrupt(t *testing.T) {
	c := &CurveRecord{OriginalSize: 20, Data: []byte{1, 2, 3, 4}}
	data := MarshalRecords(c, c)

	bad := append([]byte{}, data...)
	bad[CurveHeaderSize+4] ^= 0xff
	s := NewScanner(bad)
	n := 0
	for s.Next() {
		n++
	}
	if n != 1 {
		t.Errorf("expected one record before the corrupt magic, got %d", n)
	}
	if !errors.IsInvalidFormat(s.Err()) {
		t.Errorf("expected InvalidFormat, got %v", s.Err())
	}

	_, err := ScanRecords(data[:len(data)-1])
	if !errors.IsInvalidFormat(err) {
		t.Errorf("expected InvalidFormat for truncated record, got %v", err)
	}
}
