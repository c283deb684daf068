package format

import (
	"testing"
	"time"

	"golang.org/x/text/language"
)

func TestNumeric(t *testing.T) {
	tests := []struct {
		format string
		value  any
		want   string
	}{
		{"0", 12.7, "13"},
		{"0.00", 3.14159, "3.14"},
		{"#,0", 1234567.0, "1,234,567"},
		{"#,0.00", 1234.5, "1,234.50"},
		{"0.00", 1234.5, "1234.50"},
		{"0%", 0.256, "26%"},
		{"0.0%", 0.256, "25.6%"},
		{"$#,0.00", 1200, "$1,200.00"},
		{"0.0 kg", int64(3), "3.0 kg"},
		{"0 hours", 10.0, "10 hours"},
		{"0.0 ms", 1.5, "1.5 ms"},
		{"#,0 days", 1500.0, "1,500 days"},
		{`0.0 "mm"`, 2.0, "2.0 mm"},
		{`"#"0`, 7.0, "#7"},
		{`0 "%"`, 5.0, "5 %"},
		{"0.0", "2.25x", "2.25x"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := New(tt.format, tt.value).Format(tt.value); got != tt.want {
				t.Errorf("New(%q).Format(%v) = %q, want %q", tt.format, tt.value, got, tt.want)
			}
		})
	}
}

func TestNumericLanguage(t *testing.T) {
	f := New("#,0.00", nil, WithLanguage(language.German))
	if got := f.Format(1234.5); got != "1.234,50" {
		t.Errorf("german = %q, want 1.234,50", got)
	}
}

func TestDate(t *testing.T) {
	ts := time.Date(2024, time.March, 5, 14, 7, 9, 0, time.UTC)
	tests := []struct {
		format string
		value  any
		want   string
	}{
		{"yyyy-MM-dd", ts, "2024-03-05"},
		{"dd/MM/yy", ts, "05/03/24"},
		{"MMMM d, yyyy", ts, "March 5, 2024"},
		{"ddd HH:mm:ss", ts, "Tue 14:07:09"},
		{"h:mm tt", ts, "2:07 PM"},
		{"d", ts, "3/5/2024"},
		{"D", ts, "Tuesday, March 5, 2024"},
		{"yyyy-MM-dd", "2024-03-05T14:07:09Z", "2024-03-05"},
		{"yyyy-MM-dd", "not a date", "not a date"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			if got := New(tt.format, tt.value).Format(tt.value); got != tt.want {
				t.Errorf("New(%q).Format(%v) = %q, want %q", tt.format, tt.value, got, tt.want)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	tests := []struct {
		value any
		want  string
	}{
		{nil, ""},
		{"abc", "abc"},
		{10.0, "10"},
		{0.1, "0.1"},
		{int64(-4), "-4"},
		{true, "true"},
	}
	for _, tt := range tests {
		if got := New("", tt.value).Format(tt.value); got != tt.want {
			t.Errorf("Format(%#v) = %q, want %q", tt.value, got, tt.want)
		}
	}

	ts := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	if got := New("General", ts).Format(ts); got != "3/5/2024" {
		t.Errorf("date sample = %q, want short date", got)
	}
}
