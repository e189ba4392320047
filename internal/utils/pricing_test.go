package utils

import "testing"

func TestComputeQuoteTwoSlots(t *testing.T) {
	q := ComputeQuote(1000, 2)
	if q.GSTAmount != 360 {
		t.Fatalf("gst: got %v want 360", q.GSTAmount)
	}
	if q.TotalAmount != 2360 {
		t.Fatalf("total: got %v want 2360", q.TotalAmount)
	}
	if q.BookingAmount != 1180 {
		t.Fatalf("deposit: got %v want 1180", q.BookingAmount)
	}
}

func TestComputeQuoteRoundsEachStep(t *testing.T) {
	// 333.33 * 1 => gst 59.99 (59.9994 rounded), total 393.32, deposit 196.66.
	q := ComputeQuote(333.33, 1)
	if q.GSTAmount != 59.99 {
		t.Fatalf("gst: got %v want 59.99", q.GSTAmount)
	}
	if q.TotalAmount != 393.32 {
		t.Fatalf("total: got %v want 393.32", q.TotalAmount)
	}
	if q.BookingAmount != 196.66 {
		t.Fatalf("deposit: got %v want 196.66", q.BookingAmount)
	}
}

func TestRound2(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.005, 1.0},  // 1.005 is stored below the midpoint in binary float
		{2.675, 2.67}, // same
		{2.676, 2.68},
		{0, 0},
		{-1.235, -1.24},
		{359.999, 360},
	}
	for _, c := range cases {
		if got := Round2(c.in); got != c.want {
			t.Fatalf("Round2(%v): got %v want %v", c.in, got, c.want)
		}
	}
}

func TestToMinorUnits(t *testing.T) {
	if got := ToMinorUnits(1180); got != 118000 {
		t.Fatalf("got %d want 118000", got)
	}
	if got := ToMinorUnits(590.10); got != 59010 {
		t.Fatalf("got %d want 59010", got)
	}
}
