package ledger

import (
	"errors"
	"testing"

	apperrors "hisabu/internal/errors"
	"hisabu/internal/money"

	"github.com/shopspring/decimal"
)

func qty(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func amt(t *testing.T, s string) money.Amount {
	t.Helper()
	a, err := money.Parse(s)
	if err != nil {
		t.Fatalf("bad amount %q: %v", s, err)
	}
	return a
}

func TestCalculateItems(t *testing.T) {
	t.Run("multi_item_subtotal", func(t *testing.T) {
		drafts := []ItemDraft{
			{Name: "Notebooks", Quantity: qty("2"), UnitPrice: amt(t, "10.00")},
			{Name: "Pens", Quantity: qty("1"), UnitPrice: amt(t, "5.00")},
			{Name: "Chalk", Quantity: qty("1"), UnitPrice: amt(t, "2.50")},
		}

		totals, subtotal, err := CalculateItems(drafts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []money.Amount{2000, 500, 250}
		for i := range want {
			if totals[i] != want[i] {
				t.Errorf("item %d total = %s, want %s", i, totals[i], want[i])
			}
		}
		if subtotal != 2750 {
			t.Errorf("subtotal = %s, want 27.50", subtotal)
		}
	})

	t.Run("subtotal_is_sum_of_item_totals", func(t *testing.T) {
		drafts := []ItemDraft{
			{Name: "A", Quantity: qty("3"), UnitPrice: amt(t, "0.33"), VATRate: qty("18")},
			{Name: "B", Quantity: qty("1.5"), UnitPrice: amt(t, "7.00"), VATRate: qty("7.5")},
			{Name: "C", Quantity: qty("0.25"), UnitPrice: amt(t, "19.99")},
		}

		totals, subtotal, err := CalculateItems(drafts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var sum money.Amount
		for _, it := range totals {
			sum = sum.Add(it)
		}
		if subtotal != sum {
			t.Errorf("subtotal %s != sum of item totals %s", subtotal, sum)
		}
	})

	t.Run("vat_applied_per_item", func(t *testing.T) {
		// 10.00 * 2 * 1.18 = 23.60
		totals, subtotal, err := CalculateItems([]ItemDraft{
			{Name: "Desks", Quantity: qty("2"), UnitPrice: amt(t, "10.00"), VATRate: qty("18")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if totals[0] != 2360 || subtotal != 2360 {
			t.Errorf("got total %s subtotal %s, want 23.60", totals[0], subtotal)
		}
	})

	t.Run("rounds_half_up_once", func(t *testing.T) {
		// 0.5 * 0.25 = 0.125: half-up gives 0.13 (banker's would give 0.12).
		totals, _, err := CalculateItems([]ItemDraft{
			{Name: "Half", Quantity: qty("0.5"), UnitPrice: amt(t, "0.25")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if totals[0] != 13 {
			t.Errorf("total = %s, want 0.13", totals[0])
		}
	})

	t.Run("empty_sequence", func(t *testing.T) {
		_, _, err := CalculateItems(nil)
		if !errors.Is(err, apperrors.ErrEmptyLineItems) {
			t.Errorf("expected EMPTY_LINE_ITEMS, got %v", err)
		}
	})

	t.Run("negative_quantity", func(t *testing.T) {
		_, _, err := CalculateItems([]ItemDraft{
			{Name: "Bad", Quantity: qty("-1"), UnitPrice: amt(t, "1.00")},
		})
		if !errors.Is(err, apperrors.ErrInvalidLineItem) {
			t.Errorf("expected INVALID_LINE_ITEM, got %v", err)
		}
	})

	t.Run("negative_price", func(t *testing.T) {
		_, _, err := CalculateItems([]ItemDraft{
			{Name: "Bad", Quantity: qty("1"), UnitPrice: -100},
		})
		if !errors.Is(err, apperrors.ErrInvalidLineItem) {
			t.Errorf("expected INVALID_LINE_ITEM, got %v", err)
		}
	})

	t.Run("vat_out_of_range", func(t *testing.T) {
		for _, rate := range []string{"-1", "100.01"} {
			_, _, err := CalculateItems([]ItemDraft{
				{Name: "Bad", Quantity: qty("1"), UnitPrice: amt(t, "1.00"), VATRate: qty(rate)},
			})
			if !errors.Is(err, apperrors.ErrInvalidLineItem) {
				t.Errorf("vat %s: expected INVALID_LINE_ITEM, got %v", rate, err)
			}
		}
	})

	t.Run("zero_quantity_allowed", func(t *testing.T) {
		totals, subtotal, err := CalculateItems([]ItemDraft{
			{Name: "Free", Quantity: qty("0"), UnitPrice: amt(t, "9.99")},
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if totals[0] != 0 || subtotal != 0 {
			t.Errorf("expected zero totals, got %s / %s", totals[0], subtotal)
		}
	})
}
