package render

import "testing"

func TestParseColor(t *testing.T) {
	tests := []struct {
		in     string
		want   RGB
		wantOK bool
	}{
		{"#2c3e50", RGB{44, 62, 80}, true},
		{"#fff", RGB{255, 255, 255}, true},
		{"rgb(1, 2, 3)", RGB{1, 2, 3}, true},
		{"rgb(300,0,0)", RGB{255, 0, 0}, true},
		{"#12", RGB{}, false},
		{"blue", RGB{}, false},
	}
	for _, tt := range tests {
		got, ok := ParseColor(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ParseColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestFontStyle(t *testing.T) {
	tests := []struct {
		bold, italic bool
		code, name   string
	}{
		{false, false, "", "normal"},
		{true, false, "B", "bold"},
		{false, true, "I", "italic"},
		{true, true, "BI", "bolditalic"},
	}
	for _, tt := range tests {
		s := StyleOf(tt.bold, tt.italic)
		if s.Code() != tt.code || s.String() != tt.name {
			t.Errorf("StyleOf(%v, %v) = %q/%q, want %q/%q", tt.bold, tt.italic, s.Code(), s.String(), tt.code, tt.name)
		}
	}
}
