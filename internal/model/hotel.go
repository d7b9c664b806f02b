package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownHotel   = errors.New("unknown hotel")
	ErrUnknownSection = errors.New("unknown section")
)

// Hotel identifies one of the managed properties.
type Hotel string

const (
	Hotel36LS Hotel = "36LS"
	Hotel16TX Hotel = "16TX"
	Hotel55HT Hotel = "55HT"
	Hotel49HG Hotel = "49HG"
)

// Hotels lists every hotel in display order.
var Hotels = []Hotel{Hotel36LS, Hotel16TX, Hotel55HT, Hotel49HG}

// Valid reports whether h is one of the enumerated hotel codes.
func (h Hotel) Valid() bool {
	switch h {
	case Hotel36LS, Hotel16TX, Hotel55HT, Hotel49HG:
		return true
	}
	return false
}

// ParseHotel converts user input into a Hotel. Matching is case-insensitive.
func ParseHotel(s string) (Hotel, error) {
	h := Hotel(strings.ToUpper(strings.TrimSpace(s)))
	if !h.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownHotel, s)
	}
	return h, nil
}

// Section is a purchase category.
type Section string

const (
	SectionMeat       Section = "thit"
	SectionVegetables Section = "rau"
	SectionDryGoods   Section = "dokho"
	SectionFruit      Section = "hoaqua"
)

// Sections lists every section in display order.
var Sections = []Section{SectionMeat, SectionVegetables, SectionDryGoods, SectionFruit}

var sectionNames = map[Section]string{
	SectionMeat:       "Thịt",
	SectionVegetables: "Rau",
	SectionDryGoods:   "Đồ khô",
	SectionFruit:      "Hoa quả",
}

// Valid reports whether s is one of the enumerated section codes.
func (s Section) Valid() bool {
	_, ok := sectionNames[s]
	return ok
}

// DisplayName returns the human readable section name.
func (s Section) DisplayName() string {
	if name, ok := sectionNames[s]; ok {
		return name
	}
	return string(s)
}

// ParseSection converts user input into a Section.
func ParseSection(s string) (Section, error) {
	sec := Section(strings.ToLower(strings.TrimSpace(s)))
	if !sec.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
	}
	return sec, nil
}
