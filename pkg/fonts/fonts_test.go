package fonts

import (
	"encoding/base64"
	"math"
	"testing"
)

func TestMeasureMonospace(t *testing.T) {
	w1, h := Measure("a", 12, false)
	w4, _ := Measure("abcd", 12, false)
	if w1 <= 0 || h <= 0 {
		t.Fatalf("Measure(a) = %v x %v", w1, h)
	}
	if math.Abs(w4-4*w1) > 0.01 {
		t.Errorf("monospace width: 4 chars = %v, 1 char = %v", w4, w1)
	}
	if empty, _ := Measure("", 12, false); empty != 0 {
		t.Errorf("empty width = %v", empty)
	}
}

func TestMeasureScalesWithSize(t *testing.T) {
	small, _ := Measure("label", 10, false)
	large, _ := Measure("label", 20, false)
	if math.Abs(large-2*small) > 0.5 {
		t.Errorf("size 20 = %v, size 10 = %v", large, small)
	}
}

func TestNewFaceBold(t *testing.T) {
	f, err := NewFace(14, true)
	if err != nil {
		t.Fatalf("NewFace: %v", err)
	}
	defer f.Close()
	if f.Metrics().Height <= 0 {
		t.Error("bold face has no height")
	}
}

func TestMonoTTFBase64(t *testing.T) {
	data, err := base64.StdEncoding.DecodeString(MonoTTFBase64())
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(data) != len(MonoTTF()) {
		t.Errorf("decoded %d bytes, want %d", len(data), len(MonoTTF()))
	}
	if MonoTTFBase64() != MonoTTFBase64() {
		t.Error("cached value changed")
	}
}
