package season

import "testing"

func TestID(t *testing.T) {
	t.Parallel()

	if got := ID(" NWSL ", 2016); got != "nwsl-2016" {
		t.Fatalf("unexpected season id: got=%s want=nwsl-2016", got)
	}
	if got := ID("", 2021); got != "nwsl-2021" {
		t.Fatalf("unexpected default league id: got=%s want=nwsl-2021", got)
	}
}

func TestSeasonValidate(t *testing.T) {
	t.Parallel()

	valid := Season{ID: "nwsl-2016", Year: 2016, League: "nwsl", ExpectedMatchCount: 100}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mismatch := valid
	mismatch.ID = "nwsl-2017"
	if err := mismatch.Validate(); err == nil {
		t.Fatalf("expected id/year mismatch to fail")
	}

	negative := valid
	negative.ExpectedMatchCount = -1
	if err := negative.Validate(); err == nil {
		t.Fatalf("expected negative match count to fail")
	}
}

func TestKnown(t *testing.T) {
	t.Parallel()

	seasons := Known("NWSL")
	if len(seasons) != LastYear-FirstYear+1 {
		t.Fatalf("unexpected season count: got=%d want=%d", len(seasons), LastYear-FirstYear+1)
	}
	for _, s := range seasons {
		if err := s.Validate(); err != nil {
			t.Fatalf("known season %s is invalid: %v", s.ID, err)
		}
	}
	if n, ok := ScheduledMatches(2020); !ok || n != 0 {
		t.Fatalf("unexpected 2020 schedule: got=%d,%v want=0,true", n, ok)
	}
	if _, ok := ScheduledMatches(2012); ok {
		t.Fatalf("2012 should not be a known season")
	}
}
