package canonical

import "testing"

func TestSchemaWidthAndOrder(t *testing.T) {
	t.Parallel()

	fields := Fields()
	if len(fields) != FieldCount {
		t.Fatalf("unexpected schema width: got=%d want=%d", len(fields), FieldCount)
	}
	seen := make(map[Field]struct{}, len(fields))
	for i, spec := range fields {
		if _, dup := seen[spec.Name]; dup {
			t.Fatalf("duplicate canonical field %s", spec.Name)
		}
		seen[spec.Name] = struct{}{}
		if PositionOf(spec.Name) != i {
			t.Fatalf("unexpected position for %s: got=%d want=%d", spec.Name, PositionOf(spec.Name), i)
		}
	}
	if PositionOf("unknown") != -1 {
		t.Fatalf("expected unknown field to have no position")
	}
}

func TestRecordHash_DistinguishesNullFromZero(t *testing.T) {
	t.Parallel()

	withNull := NewRecord()
	withZero := NewRecord()
	withZero.Set(Shots, IntValue(0))

	if withNull.Hash() == withZero.Hash() {
		t.Fatalf("null and zero must hash differently")
	}
	if withNull.PopulatedCount() != 0 || withZero.PopulatedCount() != 1 {
		t.Fatalf("unexpected populated counts: null=%d zero=%d", withNull.PopulatedCount(), withZero.PopulatedCount())
	}
}

func TestRecordDiff(t *testing.T) {
	t.Parallel()

	a := NewRecord()
	a.Set(Goals, IntValue(1))
	a.Set(PlayerName, TextValue("J. Smith"))
	b := a
	b.Set(Goals, IntValue(2))

	diff := a.Diff(b)
	if len(diff) != 1 || diff[0] != Goals {
		t.Fatalf("unexpected diff: %v", diff)
	}
	if a.Hash() == b.Hash() {
		t.Fatalf("expected hashes to differ after a value change")
	}
	if got := a.Get(PlayerName).Format(KindText); got != "J. Smith" {
		t.Fatalf("unexpected player name: %q", got)
	}
}

func TestValueSQL(t *testing.T) {
	t.Parallel()

	if v := (Value{}).SQL(KindCount); v != nil {
		t.Fatalf("expected nil for null value, got=%v", v)
	}
	if v := IntValue(3).SQL(KindCount); v != int64(3) {
		t.Fatalf("unexpected int driver value: %v", v)
	}
	if v := FloatValue(0.5).SQL(KindFraction); v != 0.5 {
		t.Fatalf("unexpected float driver value: %v", v)
	}
	if v := TextValue("MF").SQL(KindCategory); v != "MF" {
		t.Fatalf("unexpected text driver value: %v", v)
	}
}
