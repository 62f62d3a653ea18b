package patch

import (
	"encoding/json"
	"testing"
)

type payload struct {
	Image Field[string]   `json:"image"`
	Tags  Field[[]string] `json:"tags"`
}

func TestField_AbsentNullAndValue(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"image":null}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !p.Image.Set || !p.Image.Null {
		t.Fatalf("expected image to be set and null, got %+v", p.Image)
	}
	if p.Image.Present() {
		t.Fatalf("null field must not be present")
	}
	if p.Tags.Set {
		t.Fatalf("absent field must not be set")
	}
}

func TestField_Value(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"image":"https://img/x.png","tags":["go","web"]}`), &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	if !p.Image.Present() || p.Image.Value != "https://img/x.png" {
		t.Fatalf("unexpected image: %+v", p.Image)
	}
	if len(p.Tags.Value) != 2 || p.Tags.Value[1] != "web" {
		t.Fatalf("unexpected tags: %+v", p.Tags)
	}
}

func TestField_WrongType(t *testing.T) {
	var p payload
	if err := json.Unmarshal([]byte(`{"image":42}`), &p); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestField_ValueOrNil(t *testing.T) {
	if v := (Field[string]{}).ValueOrNil(); v != nil {
		t.Fatalf("absent field should yield nil, got %v", v)
	}
	if v := Null[string]().ValueOrNil(); v != nil {
		t.Fatalf("null field should yield nil, got %v", v)
	}
	if v := Some("x").ValueOrNil(); v != "x" {
		t.Fatalf("expected x, got %v", v)
	}
}

func TestField_Marshal(t *testing.T) {
	out, err := json.Marshal(payload{Image: Some("a")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"image":"a","tags":null}` {
		t.Fatalf("unexpected json: %s", out)
	}
}
