package types

import "testing"

func TestValue_Truthy(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want bool
	}{
		{"null", Null(), false},
		{"zero int", Int(0), false},
		{"nonzero int", Int(5), true},
		{"false bool", Bool(false), false},
		{"true bool", Bool(true), true},
		{"empty string", Text(""), false},
		{"nonempty string", Text("x"), true},
	}

	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("%s: Truthy() = %v, want %v", c.name, got, c.want)
		}
	}
}

func TestCompare_NullSortsLowest(t *testing.T) {
	if Compare(Null(), Int(1)) >= 0 {
		t.Error("NULL should sort before INTEGER")
	}
	if Compare(Int(1), Null()) <= 0 {
		t.Error("INTEGER should sort after NULL")
	}
	if Compare(Null(), Null()) != 0 {
		t.Error("NULL should equal NULL under Compare")
	}
}

func TestCompare_Numeric(t *testing.T) {
	if Compare(Int(1), Float(1.0)) != 0 {
		t.Error("1 and 1.0 should compare equal across INTEGER/FLOAT")
	}
	if Compare(Int(1), Int(2)) >= 0 {
		t.Error("1 should sort before 2")
	}
}

func TestCompare_CrossTypeFallsBackToString(t *testing.T) {
	got := Compare(Text("10"), Int(9))
	want := Compare(Text("10"), Text("9"))
	if got != want {
		t.Errorf("cross-type compare = %d, want string-fallback result %d", got, want)
	}
}

func TestParseType(t *testing.T) {
	cases := []struct {
		in       string
		wantKind Kind
		wantSize int
	}{
		{"INTEGER", KindInt, 0},
		{"int", KindInt, 0},
		{"VARCHAR(100)", KindVarchar, 100},
		{"varchar( 32 )", KindVarchar, 32},
		{"TEXT", KindText, 0},
		{"BOOL", KindBool, 0},
		{"TIMESTAMP", KindTimestamp, 0},
		{"DATETIME", KindTimestamp, 0},
	}

	for _, c := range cases {
		ct, err := ParseType(c.in)
		if err != nil {
			t.Fatalf("ParseType(%q): %v", c.in, err)
		}
		if ct.Kind != c.wantKind || ct.Size != c.wantSize {
			t.Errorf("ParseType(%q) = %+v, want kind=%v size=%d", c.in, ct, c.wantKind, c.wantSize)
		}
	}

	if _, err := ParseType("NOT_A_TYPE"); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestValidateAndConvert_VarcharSizeLimit(t *testing.T) {
	ct := ColumnType{Kind: KindVarchar, Size: 3}
	if _, err := ValidateAndConvert("name", Text("abcd"), ct); err == nil {
		t.Error("expected validation error for oversized VARCHAR")
	}
	if _, err := ValidateAndConvert("name", Text("abc"), ct); err != nil {
		t.Errorf("unexpected error for in-bounds VARCHAR: %v", err)
	}
}

func TestValidateAndConvert_NullPassesThrough(t *testing.T) {
	v, err := ValidateAndConvert("x", Null(), ColumnType{Kind: KindInt})
	if err != nil || !v.IsNull() {
		t.Errorf("NULL should convert to NULL without error, got %v, err=%v", v, err)
	}
}

func TestValidateAndConvert_TimestampFormats(t *testing.T) {
	formats := []string{"2024-01-02", "2024-01-02 03:04:05", "2024-01-02T03:04:05"}
	for _, s := range formats {
		if _, err := ValidateAndConvert("t", Text(s), ColumnType{Kind: KindTimestamp}); err != nil {
			t.Errorf("ValidateAndConvert(%q) as TIMESTAMP: %v", s, err)
		}
	}
}
