package jsonutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

type doc struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func TestDecodeListArray(t *testing.T) {
	raw := json.RawMessage(`[{"name":"scan","url":"https://files/scan.pdf"}]`)
	list := DecodeList[doc](raw)
	assert.Len(t, list, 1)
	assert.Equal(t, "scan", list[0].Name)
	assert.Equal(t, "https://files/scan.pdf", list[0].URL)
}

func TestDecodeListDoubleEncoded(t *testing.T) {
	raw := json.RawMessage(`"[{\"name\":\"scan\",\"url\":\"https://files/scan.pdf\"}]"`)
	list := DecodeList[doc](raw)
	assert.Len(t, list, 1)
	assert.Equal(t, "scan", list[0].Name)
}

func TestDecodeListNullAndEmpty(t *testing.T) {
	assert.Empty(t, DecodeList[doc](json.RawMessage("null")))
	assert.Empty(t, DecodeList[doc](nil))
	assert.Empty(t, DecodeList[doc](json.RawMessage("  ")))
	assert.Empty(t, DecodeList[doc](json.RawMessage(`""`)))
}

func TestDecodeListMalformed(t *testing.T) {
	assert.Empty(t, DecodeList[doc](json.RawMessage(`{"name":"not a list"}`)))
	assert.Empty(t, DecodeList[doc](json.RawMessage(`[{"name":`)))
	assert.Empty(t, DecodeList[doc](json.RawMessage(`"not even json"`)))
}

func TestDecodeListNeverNil(t *testing.T) {
	list := DecodeList[doc](json.RawMessage("[]"))
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestEncodeList(t *testing.T) {
	assert.Equal(t, json.RawMessage("[]"), EncodeList[doc](nil))

	data := EncodeList([]doc{{Name: "scan", URL: "u"}})
	assert.JSONEq(t, `[{"name":"scan","url":"u"}]`, string(data))
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	original := []doc{{Name: "a", URL: "u1"}, {Name: "b", URL: "u2"}}
	decoded := DecodeList[doc](EncodeList(original))
	assert.Equal(t, original, decoded)
}
