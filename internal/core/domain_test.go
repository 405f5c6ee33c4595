package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateMonthKey(t *testing.T) {
	cases := []struct {
		d    Date
		want string
	}{
		{NewDate(2024, 7, 5), "2024-07"},
		{NewDate(2024, 12, 31), "2024-12"},
		{NewDate(1999, 1, 1), "1999-01"},
	}
	for i, tc := range cases {
		if got := tc.d.MonthKey(); got != tc.want {
			t.Fatalf("case %d expected %q, got %q", i, tc.want, got)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-07-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !d.Equal(NewDate(2024, 7, 5).Time) {
		t.Fatalf("expected 2024-07-05, got %v", d)
	}
	if _, err := ParseDate(" 2024-07-05 "); err != nil {
		t.Fatalf("surrounding whitespace should be accepted, got %v", err)
	}
	for _, in := range []string{"", "05-07-2024", "2024-07-05T00:00:00Z", "yesterday"} {
		_, err := ParseDate(in)
		if err == nil {
			t.Fatalf("%q expected error", in)
		}
		if !IsValidation(err) {
			t.Fatalf("%q expected validation error, got %v", in, err)
		}
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2024, 7, 5)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-07-05"` {
		t.Fatalf("unexpected encoding %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round trip mismatch: %v != %v", back, d)
	}
}

func TestDateUnmarshalRFC3339(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte(`"2024-07-05T14:30:00.000Z"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !d.Equal(NewDate(2024, 7, 5).Time) {
		t.Fatalf("expected 2024-07-05, got %v", d)
	}
	if err := json.Unmarshal([]byte(`"not-a-date"`), &d); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}

func TestValidMonthKey(t *testing.T) {
	cases := []struct {
		in string
		ok bool
	}{
		{"2024-07", true},
		{"1999-12", true},
		{"2024-7", false},
		{"2024-13", false},
		{"2024", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidMonthKey(tc.in); got != tc.ok {
			t.Fatalf("%q expected %v, got %v", tc.in, tc.ok, got)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel("2024-07"); got != "July 2024" {
		t.Fatalf("expected July 2024, got %q", got)
	}
	if got := MonthLabel("garbage"); got != "garbage" {
		t.Fatalf("malformed key should pass through, got %q", got)
	}
}

func TestExpenseValidate(t *testing.T) {
	good := Expense{
		Date:        NewDate(2024, 7, 5),
		Description: "Groceries",
		Amount:      Money{Cents: 7550},
		Category:    "Food & Drinks",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []Expense{
		{Date: Date{Time: time.Time{}}, Description: "a", Amount: Money{Cents: 1}, Category: "Other"},
		{Date: NewDate(2024, 7, 5), Description: "", Amount: Money{Cents: 1}, Category: "Other"},
		{Date: NewDate(2024, 7, 5), Description: "a", Amount: Money{Cents: 0}, Category: "Other"},
		{Date: NewDate(2024, 7, 5), Description: "a", Amount: Money{Cents: 1}, Category: "Nope"},
	}
	for i, e := range bads {
		err := e.Validate()
		if err == nil {
			t.Fatalf("case %d expected error", i)
		}
		if !IsValidation(err) {
			t.Fatalf("case %d expected validation error, got %v", i, err)
		}
	}
}

func TestIncomeValidate(t *testing.T) {
	good := Income{Date: NewDate(2024, 7, 1), Source: "Salary", Amount: Money{Cents: 250000}}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bad := Income{Date: NewDate(2024, 7, 1), Source: "Lottery", Amount: Money{Cents: 100}}
	if err := bad.Validate(); err == nil {
		t.Fatalf("expected error for unknown source")
	}
}

func TestBudgetValidate(t *testing.T) {
	good := Budget{Category: "Food & Drinks", Amount: Money{Cents: 30000}, MonthYear: "2024-07"}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	bads := []Budget{
		{Category: "Food & Drinks", Amount: Money{Cents: 0}, MonthYear: "2024-07"},
		{Category: "Nope", Amount: Money{Cents: 100}, MonthYear: "2024-07"},
		{Category: "Food & Drinks", Amount: Money{Cents: 100}, MonthYear: "July 2024"},
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestSnapshotClone(t *testing.T) {
	orig := LedgerSnapshot{
		Expenses:          []Expense{{ID: "e1"}},
		Incomes:           []Income{{ID: "i1"}},
		Budgets:           []Budget{{ID: "b1"}},
		NotificationsSent: map[string]bool{"k": true},
	}
	clone := orig.Clone()
	clone.Expenses[0].ID = "changed"
	clone.NotificationsSent["k2"] = true
	if orig.Expenses[0].ID != "e1" {
		t.Fatalf("clone aliases expenses slice")
	}
	if len(orig.NotificationsSent) != 1 {
		t.Fatalf("clone aliases dedup map")
	}
}
