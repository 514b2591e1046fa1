package domain

import (
	"reflect"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "Penki Eurai", "penki eurai"},
		{"trailing period stripped", "penki eurai.", "penki eurai"},
		{"only one period stripped", "penki eurai..", "penki eurai."},
		{"surrounding space", "  penki eurai  ", "penki eurai"},
		{"inner runs collapsed", "penki   eurai", "penki eurai"},
		{"tabs collapsed", "penki\teurai", "penki eurai"},
		{"space before period", "penki eurai .", "penki eurai"},
		{"empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.in); got != tc.want {
				t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		given    string
		want     bool
	}{
		{"exact", "penki eurai.", "penki eurai.", true},
		{"case and period ignored", "Penki eurai.", "penki EURAI", true},
		{"extra spaces ignored", "penki eurai.", " penki   eurai ", true},
		{"wrong word", "penki eurai.", "penki eurų", false},
		{"missing word", "dvidešimt vienas euras.", "dvidešimt euras", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Check(tc.expected, tc.given); got != tc.want {
				t.Errorf("Check(%q, %q) = %v, want %v", tc.expected, tc.given, got, tc.want)
			}
		})
	}
}

func TestDiff(t *testing.T) {
	t.Run("identical answers give one equal segment", func(t *testing.T) {
		got := Diff("penki eurai.", "penki eurai")
		want := []DiffSegment{{Op: DiffEqual, Expected: "penki eurai", Given: "penki eurai"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Diff() = %+v, want %+v", got, want)
		}
	})

	t.Run("changed word becomes replace", func(t *testing.T) {
		got := Diff("penki eurai", "penki eurų")
		want := []DiffSegment{
			{Op: DiffEqual, Expected: "penki", Given: "penki"},
			{Op: DiffReplace, Expected: "eurai", Given: "eurų"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Diff() = %+v, want %+v", got, want)
		}
	})

	t.Run("missing word becomes delete", func(t *testing.T) {
		got := Diff("dvidešimt vienas euras", "dvidešimt euras")
		want := []DiffSegment{
			{Op: DiffEqual, Expected: "dvidešimt", Given: "dvidešimt"},
			{Op: DiffDelete, Expected: "vienas"},
			{Op: DiffEqual, Expected: "euras", Given: "euras"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Diff() = %+v, want %+v", got, want)
		}
	})

	t.Run("extra word becomes insert", func(t *testing.T) {
		got := Diff("du eurai", "du labai eurai")
		want := []DiffSegment{
			{Op: DiffEqual, Expected: "du", Given: "du"},
			{Op: DiffInsert, Given: "labai"},
			{Op: DiffEqual, Expected: "eurai", Given: "eurai"},
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Diff() = %+v, want %+v", got, want)
		}
	})

	t.Run("empty given", func(t *testing.T) {
		got := Diff("trys eurai", "")
		want := []DiffSegment{{Op: DiffDelete, Expected: "trys eurai"}}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Diff() = %+v, want %+v", got, want)
		}
	})
}
