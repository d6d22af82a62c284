package analytics

import (
	"testing"
	"time"
)

// Wednesday, so the Monday week-start logic has room on both sides.
var testNow = time.Date(2026, time.March, 4, 15, 0, 0, 0, time.UTC)

func at(day int, hour int) time.Time {
	return time.Date(2026, time.March, day, hour, 0, 0, 0, time.UTC)
}

func TestSummarize_HeadlineMetrics(t *testing.T) {
	t.Parallel()

	appointments := []Appointment{
		{ServiceName: "Consultation Session", Date: at(4, 9), Status: StatusApproved},
		{ServiceName: "Consultation Session", Date: at(4, 10), Status: StatusApproved},
		{ServiceName: "Technical Support", Date: at(3, 9), Status: StatusApproved},
		{ServiceName: "Technical Support", Date: at(2, 9), Status: StatusPending},
		{ServiceName: "Product Demo", Date: at(20, 9), Status: StatusPending},
		{ServiceName: "Product Demo", Date: at(1, 9), Status: StatusCancelled},
	}

	summary := Summarize(appointments, testNow)

	if summary.Total != 6 {
		t.Fatalf("expected total 6, got %d", summary.Total)
	}
	if summary.Today != 2 {
		t.Fatalf("expected 2 today, got %d", summary.Today)
	}
	// Week runs Monday March 2 through Sunday March 8; March 1 and March 20
	// fall outside it.
	if summary.ThisWeek != 4 {
		t.Fatalf("expected 4 this week, got %d", summary.ThisWeek)
	}
	if summary.Pending != 2 || summary.Approved != 3 || summary.Cancelled != 1 {
		t.Fatalf("unexpected status tallies: %+v", summary)
	}
	if summary.ConversionRate != 50.0 {
		t.Fatalf("expected conversion rate 50.0, got %v", summary.ConversionRate)
	}
	if summary.PendingRate != 33.3 {
		t.Fatalf("expected pending rate 33.3, got %v", summary.PendingRate)
	}
	if summary.AvgDailyThisWeek != 0.6 {
		t.Fatalf("expected average 0.6 per day, got %v", summary.AvgDailyThisWeek)
	}
}

func TestSummarize_EmptySnapshot(t *testing.T) {
	t.Parallel()

	summary := Summarize(nil, testNow)
	if summary.Total != 0 {
		t.Fatalf("expected zero total, got %d", summary.Total)
	}
	if summary.MostBookedService != "None" || summary.MostBookedCount != 0 {
		t.Fatalf("expected None placeholder, got %q/%d", summary.MostBookedService, summary.MostBookedCount)
	}
	if summary.ConversionRate != 0 || summary.PendingRate != 0 || summary.AvgDailyThisWeek != 0 {
		t.Fatalf("expected all rates zero: %+v", summary)
	}
}

func TestMostBooked_FirstEncounterTieBreak(t *testing.T) {
	t.Parallel()

	appointments := []Appointment{
		{ServiceName: "Training Session", Date: at(4, 9), Status: StatusPending},
		{ServiceName: "Product Demo", Date: at(4, 10), Status: StatusPending},
		{ServiceName: "Product Demo", Date: at(5, 10), Status: StatusPending},
		{ServiceName: "Training Session", Date: at(5, 9), Status: StatusPending},
	}

	summary := Summarize(appointments, testNow)
	if summary.MostBookedService != "Training Session" || summary.MostBookedCount != 2 {
		t.Fatalf("expected first-encountered winner on tie, got %q/%d", summary.MostBookedService, summary.MostBookedCount)
	}
}

func TestStatusCounts_AlwaysCarriesThreeKeys(t *testing.T) {
	t.Parallel()

	counts := StatusCounts([]Appointment{
		{Status: StatusApproved},
		{Status: "Unknown"},
	})
	if len(counts) != 3 {
		t.Fatalf("expected exactly three keys, got %v", counts)
	}
	if counts[StatusApproved] != 1 || counts[StatusPending] != 0 || counts[StatusCancelled] != 0 {
		t.Fatalf("unexpected counts: %v", counts)
	}
}

func TestByService_SortedByTotalDescending(t *testing.T) {
	t.Parallel()

	appointments := []Appointment{
		{ServiceName: "Technical Support", Date: at(4, 9), Status: StatusApproved},
		{ServiceName: "Consultation Session", Date: at(4, 10), Status: StatusApproved},
		{ServiceName: "Consultation Session", Date: at(5, 10), Status: StatusPending},
		{ServiceName: "Consultation Session", Date: at(6, 10), Status: StatusCancelled},
		{ServiceName: "Technical Support", Date: at(5, 9), Status: StatusApproved},
		{ServiceName: "Product Demo", Date: at(6, 9), Status: StatusPending},
		{ServiceName: "", Date: at(6, 11), Status: StatusPending},
	}

	breakdowns := ByService(appointments)
	if len(breakdowns) != 3 {
		t.Fatalf("expected 3 services, got %d", len(breakdowns))
	}
	if breakdowns[0].Name != "Consultation Session" || breakdowns[0].Total != 3 {
		t.Fatalf("unexpected leader: %+v", breakdowns[0])
	}
	if breakdowns[1].Name != "Technical Support" || breakdowns[2].Name != "Product Demo" {
		t.Fatalf("unexpected tail order: %+v", breakdowns)
	}
	if breakdowns[0].SuccessRate != 33.3 {
		t.Fatalf("expected success rate 33.3, got %v", breakdowns[0].SuccessRate)
	}
	if breakdowns[1].SuccessRate != 100.0 {
		t.Fatalf("expected success rate 100.0, got %v", breakdowns[1].SuccessRate)
	}
}

func TestByService_TiesKeepEncounterOrder(t *testing.T) {
	t.Parallel()

	appointments := []Appointment{
		{ServiceName: "B Service", Date: at(4, 9), Status: StatusPending},
		{ServiceName: "A Service", Date: at(4, 10), Status: StatusPending},
	}

	breakdowns := ByService(appointments)
	if breakdowns[0].Name != "B Service" || breakdowns[1].Name != "A Service" {
		t.Fatalf("expected stable encounter order on ties, got %+v", breakdowns)
	}
}

func TestRate_Rounding(t *testing.T) {
	t.Parallel()

	cases := []struct {
		part, total int
		want        float64
	}{
		{0, 0, 0},
		{1, 3, 33.3},
		{2, 3, 66.7},
		{1, 1, 100.0},
		{1, 8, 12.5},
	}
	for _, tc := range cases {
		if got := Rate(tc.part, tc.total); got != tc.want {
			t.Fatalf("Rate(%d, %d): expected %v, got %v", tc.part, tc.total, tc.want, got)
		}
	}
}

func TestStartOfWeek_Monday(t *testing.T) {
	t.Parallel()

	monday := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	cases := []time.Time{
		monday,
		monday.Add(10 * time.Hour),
		time.Date(2026, time.March, 4, 23, 59, 0, 0, time.UTC),
		time.Date(2026, time.March, 8, 12, 0, 0, 0, time.UTC), // Sunday
	}
	for _, tc := range cases {
		if got := StartOfWeek(tc); !got.Equal(monday) {
			t.Fatalf("StartOfWeek(%v): expected %v, got %v", tc, monday, got)
		}
	}
}

func TestFilterRange(t *testing.T) {
	t.Parallel()

	appointments := []Appointment{
		{ServiceName: "A", Date: at(4, 9)},                                            // today
		{ServiceName: "B", Date: at(6, 9)},                                            // this week
		{ServiceName: "C", Date: at(25, 9)},                                           // this month
		{ServiceName: "D", Date: time.Date(2026, time.July, 1, 9, 0, 0, 0, time.UTC)}, // this year
		{ServiceName: "E", Date: time.Date(2025, time.July, 1, 9, 0, 0, 0, time.UTC)}, // last year
	}

	cases := []struct {
		rng  Range
		want int
	}{
		{RangeToday, 1},
		{RangeWeek, 2},
		{RangeMonth, 3},
		{RangeYear, 4},
		{RangeAll, 5},
	}
	for _, tc := range cases {
		if got := len(FilterRange(appointments, tc.rng, testNow)); got != tc.want {
			t.Fatalf("range %q: expected %d appointments, got %d", tc.rng, tc.want, got)
		}
	}

	if !ValidRange(RangeToday) || ValidRange(Range("quarter")) {
		t.Fatal("unexpected ValidRange classification")
	}
}
