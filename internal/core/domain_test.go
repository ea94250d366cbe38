package core

import "testing"

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.String() != "2024-01-05" {
		t.Fatalf("String() = %q", d.String())
	}
	if d.Label() != "Jan 5" {
		t.Fatalf("Label() = %q", d.Label())
	}

	for _, bad := range []string{"", "2024-1-5", "05-01-2024", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("ParseDate(%q) expected error", bad)
		}
	}
}

func TestParsePeriod(t *testing.T) {
	for _, s := range []string{"week", "month", "year", "all"} {
		p, err := ParsePeriod(s)
		if err != nil || !p.IsValid() {
			t.Fatalf("ParsePeriod(%q) = %v, %v", s, p, err)
		}
	}
	if _, err := ParsePeriod("quarter"); err == nil {
		t.Fatalf("expected error for unknown period")
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		ID:          "a",
		Description: "coffee",
		Amount:      Money{Cents: 100},
		Category:    "Food",
		Date:        NewDate(2024, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	// Description and category stay free text, even empty.
	loose := good
	loose.Description = ""
	loose.Category = ""
	if err := loose.Validate(); err != nil {
		t.Fatalf("free-text fields must not be constrained: %v", err)
	}

	noDate := good
	noDate.Date = Date{}
	if err := noDate.Validate(); err == nil {
		t.Fatalf("expected error for zero date")
	}
	noAmount := good
	noAmount.Amount = Money{}
	if err := noAmount.Validate(); err == nil {
		t.Fatalf("expected error for zero amount")
	}
}
