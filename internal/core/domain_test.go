package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.January || d.Day() != 5 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.String() != "2024-01-05" {
		t.Fatalf("round trip got %q", d.String())
	}
	if _, err := ParseDate("not-a-date"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("expected ErrInvalidDate, got %v", err)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		ID:       "t1",
		Type:     Expense,
		Amount:   Money{Cents: 100},
		Category: "Food",
		Date:     NewDate(2025, 1, 1),
		Currency: "USD",
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	bads := []struct {
		mutate func(Transaction) Transaction
		want   error
	}{
		{func(x Transaction) Transaction { x.Type = "transfer"; return x }, ErrInvalidType},
		{func(x Transaction) Transaction { x.Amount = Money{}; return x }, ErrInvalidAmount},
		{func(x Transaction) Transaction { x.Category = "  "; return x }, ErrEmptyCategory},
		{func(x Transaction) Transaction { x.Date = Date{}; return x }, ErrInvalidDate},
		{func(x Transaction) Transaction { x.Currency = ""; return x }, ErrEmptyCurrency},
	}
	for i, tc := range bads {
		if err := tc.mutate(good).Validate(); !errors.Is(err, tc.want) {
			t.Fatalf("case %d expected %v, got %v", i, tc.want, err)
		}
	}

	long := good
	for len(long.Description) <= 200 {
		long.Description += "aaaaaaaaaa"
	}
	if err := long.Validate(); !errors.Is(err, ErrDescriptionLong) {
		t.Fatalf("expected ErrDescriptionLong, got %v", err)
	}
}

func TestCategoriesDisjoint(t *testing.T) {
	income := CategoriesFor(Income)
	expense := CategoriesFor(Expense)
	if len(income) == 0 || len(expense) == 0 {
		t.Fatalf("expected non-empty vocabularies")
	}
	seen := map[string]struct{}{}
	for _, c := range income {
		seen[c] = struct{}{}
	}
	for _, c := range expense {
		if _, ok := seen[c]; ok {
			t.Fatalf("category %q appears in both vocabularies", c)
		}
	}
	if got := CategoriesFor("transfer"); got != nil {
		t.Fatalf("expected nil for unknown type, got %v", got)
	}
}
