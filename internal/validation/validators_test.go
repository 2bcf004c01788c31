package validation

import "testing"

func TestValidateTimeOfDay(t *testing.T) {
	t.Parallel()

	tests := []struct {
		value   string
		wantErr bool
	}{
		{"00:00", false},
		{"09:30", false},
		{"23:59", false},
		{"24:00", true},
		{"9:30", true},
		{"09:60", true},
		{"morning", true},
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateTimeOfDay(tt.value)
		if tt.wantErr && err == nil {
			t.Errorf("ValidateTimeOfDay(%q) succeeded, want error", tt.value)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("ValidateTimeOfDay(%q) failed: %v", tt.value, err)
		}
	}
}

func TestValidateRepeatTaskStatus(t *testing.T) {
	t.Parallel()

	for _, valid := range []string{"active", "inactive"} {
		if err := ValidateRepeatTaskStatus(valid); err != nil {
			t.Errorf("ValidateRepeatTaskStatus(%q) failed: %v", valid, err)
		}
	}
	for _, invalid := range []string{"paused", "ACTIVE", ""} {
		if err := ValidateRepeatTaskStatus(invalid); err == nil {
			t.Errorf("ValidateRepeatTaskStatus(%q) succeeded, want error", invalid)
		}
	}
}

func TestDayEndValidator(t *testing.T) {
	t.Parallel()

	type bounds struct {
		End string `validate:"day_end"`
	}

	if err := Validate.Struct(bounds{End: "24:00"}); err != nil {
		t.Errorf("day_end rejected the 24:00 sentinel: %v", err)
	}
	if err := Validate.Struct(bounds{End: "18:00"}); err != nil {
		t.Errorf("day_end rejected a plain time: %v", err)
	}
	if err := Validate.Struct(bounds{End: "25:00"}); err == nil {
		t.Error("day_end accepted 25:00")
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "trims whitespace", input: "  hello  ", want: "hello"},
		{name: "strips control characters", input: "a\x00b\x1bc", want: "abc"},
		{name: "keeps newlines and tabs", input: "a\nb\tc", want: "a\nb\tc"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SanitizeText(tt.input); got != tt.want {
				t.Errorf("SanitizeText(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
