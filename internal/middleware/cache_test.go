package middleware

import (
	"net/http"
	"testing"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	body := []byte(`{"items":[]}`)

	bs, err := encodePayload(http.StatusOK, hdr, body)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	status, gotHdr, gotBody, ok := decodePayload(bs)
	if !ok {
		t.Fatal("decode failed")
	}
	if status != http.StatusOK {
		t.Errorf("status = %d", status)
	}
	if gotHdr.Get("Content-Type") != "application/json" {
		t.Errorf("header = %v", gotHdr)
	}
	if string(gotBody) != string(body) {
		t.Errorf("body = %q", gotBody)
	}
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	for _, bs := range [][]byte{nil, {1, 2, 3}, make([]byte, 8)} {
		if _, _, _, ok := decodePayload(bs); ok && len(bs) < 8 {
			t.Errorf("decodePayload(%v) accepted a short payload", bs)
		}
	}
	// Header length pointing past the buffer must be rejected.
	bs := []byte{0, 0, 0, 200, 0, 0, 255, 255}
	if _, _, _, ok := decodePayload(bs); ok {
		t.Error("decodePayload accepted an oversized header length")
	}
}
