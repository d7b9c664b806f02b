package model

import (
	"errors"
	"testing"
)

func TestParseHotel(t *testing.T) {
	tests := []struct {
		input string
		want  Hotel
	}{
		{"36LS", Hotel36LS},
		{"16tx", Hotel16TX},
		{" 55HT ", Hotel55HT},
		{"49hg", Hotel49HG},
	}
	for _, tt := range tests {
		got, err := ParseHotel(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseHotel(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}

	for _, bad := range []string{"", "hotel1", "36L"} {
		if _, err := ParseHotel(bad); !errors.Is(err, ErrUnknownHotel) {
			t.Errorf("ParseHotel(%q) error = %v, want ErrUnknownHotel", bad, err)
		}
	}
}

func TestParseSection(t *testing.T) {
	tests := []struct {
		input string
		want  Section
	}{
		{"thit", SectionMeat},
		{"RAU", SectionVegetables},
		{" dokho", SectionDryGoods},
		{"hoaqua", SectionFruit},
	}
	for _, tt := range tests {
		got, err := ParseSection(tt.input)
		if err != nil || got != tt.want {
			t.Errorf("ParseSection(%q) = %q, %v; want %q", tt.input, got, err, tt.want)
		}
	}

	if _, err := ParseSection("meat"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("ParseSection(meat) error = %v, want ErrUnknownSection", err)
	}
}

func TestSectionDisplayName(t *testing.T) {
	if got := SectionDryGoods.DisplayName(); got != "Đồ khô" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := Section("other").DisplayName(); got != "other" {
		t.Errorf("unknown DisplayName = %q", got)
	}
}
