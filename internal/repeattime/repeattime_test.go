package repeattime

import (
	"errors"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		want    Value
		wantErr bool
	}{
		{
			name: "workdays with holiday exclusion",
			spec: "190|09:00|10:00",
			want: Value{WeekdayBits: 190, Start: "09:00", End: "10:00"},
		},
		{
			name: "every day",
			spec: "127|08:30|09:00",
			want: Value{WeekdayBits: 127, Start: "08:30", End: "09:00"},
		},
		{
			name:    "too few fields",
			spec:    "127|08:30",
			wantErr: true,
		},
		{
			name:    "too many fields",
			spec:    "127|08:30|09:00|extra",
			wantErr: true,
		},
		{
			name:    "non-numeric bitmask",
			spec:    "abc|08:30|09:00",
			wantErr: true,
		},
		{
			name:    "empty spec",
			spec:    "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Parse(tt.spec)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Parse(%q) succeeded, want error", tt.spec)
				}
				if !errors.Is(err, ErrMalformedSpec) {
					t.Errorf("Parse(%q) error = %v, want ErrMalformedSpec", tt.spec, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.spec, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.spec, got, tt.want)
			}
		})
	}
}

func TestStringRoundTrip(t *testing.T) {
	t.Parallel()

	specs := []string{"190|09:00|10:00", "127|08:30|09:00", "2|22:00|23:30", "255|00:00|24:00"}
	for _, spec := range specs {
		value, err := Parse(spec)
		if err != nil {
			t.Fatalf("Parse(%q) failed: %v", spec, err)
		}
		if got := value.String(); got != spec {
			t.Errorf("String(Parse(%q)) = %q, want the original", spec, got)
		}
	}
}

// TestOnWeekdayExhaustive walks all 128 weekday bit combinations and
// every weekday, so every bit position is checked against its day.
func TestOnWeekdayExhaustive(t *testing.T) {
	t.Parallel()

	for bits := 0; bits < 128; bits++ {
		value := Value{WeekdayBits: bits}
		for day := time.Sunday; day <= time.Saturday; day++ {
			want := bits&(1<<int(day)) != 0
			if got := value.OnWeekday(day); got != want {
				t.Errorf("bits=%d OnWeekday(%v) = %v, want %v", bits, day, got, want)
			}
		}
	}
}

func TestScheduledFor(t *testing.T) {
	t.Parallel()

	// 2025-06-02 is a Monday.
	monday := time.Date(2025, 6, 2, 12, 0, 0, 0, time.Local)
	sunday := monday.AddDate(0, 0, -1)

	alwaysHoliday := func(time.Time) bool { return true }
	neverHoliday := func(time.Time) bool { return false }

	tests := []struct {
		name      string
		spec      string
		date      time.Time
		isHoliday func(time.Time) bool
		want      bool
	}{
		{
			name:      "monday bit set on a monday",
			spec:      "2|09:00|10:00",
			date:      monday,
			isHoliday: neverHoliday,
			want:      true,
		},
		{
			name:      "monday bit set on a sunday",
			spec:      "2|09:00|10:00",
			date:      sunday,
			isHoliday: neverHoliday,
			want:      false,
		},
		{
			name:      "holiday exclusion suppresses a holiday",
			spec:      "130|09:00|10:00",
			date:      monday,
			isHoliday: alwaysHoliday,
			want:      false,
		},
		{
			name:      "holiday exclusion ignores ordinary days",
			spec:      "130|09:00|10:00",
			date:      monday,
			isHoliday: neverHoliday,
			want:      true,
		},
		{
			name:      "no exclusion bit runs on holidays",
			spec:      "2|09:00|10:00",
			date:      monday,
			isHoliday: alwaysHoliday,
			want:      true,
		},
		{
			name:      "nil oracle treated as no holidays",
			spec:      "130|09:00|10:00",
			date:      monday,
			isHoliday: nil,
			want:      true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value, err := Parse(tt.spec)
			if err != nil {
				t.Fatalf("Parse(%q) failed: %v", tt.spec, err)
			}
			if got := value.ScheduledFor(tt.date, tt.isHoliday); got != tt.want {
				t.Errorf("ScheduledFor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTimeRange(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 6, 2, 17, 45, 0, 0, time.Local)
	value := Value{WeekdayBits: 2, Start: "09:00", End: "10:30"}

	start, end, err := value.TimeRange(date)
	if err != nil {
		t.Fatalf("TimeRange failed: %v", err)
	}

	wantStart := time.Date(2025, 6, 2, 9, 0, 0, 0, time.Local)
	wantEnd := time.Date(2025, 6, 2, 10, 30, 0, 0, time.Local)
	if !start.Equal(wantStart) {
		t.Errorf("start = %v, want %v", start, wantStart)
	}
	if !end.Equal(wantEnd) {
		t.Errorf("end = %v, want %v", end, wantEnd)
	}
}

func TestTimeRangeMalformed(t *testing.T) {
	t.Parallel()

	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.Local)
	for _, value := range []Value{
		{Start: "nine", End: "10:00"},
		{Start: "09:00", End: "10"},
		{Start: "09:00:00", End: "10:00"},
	} {
		if _, _, err := value.TimeRange(date); err == nil {
			t.Errorf("TimeRange with start=%q end=%q succeeded, want error", value.Start, value.End)
		}
	}
}

func TestDescribe(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		bits int
		want string
	}{
		{name: "workdays with exclusion", bits: 0b0111110 | ExcludeHolidaysBit, want: "workdays"},
		{name: "workdays without exclusion", bits: 0b0111110, want: "Mon to Fri"},
		{name: "every day with exclusion", bits: 127 | ExcludeHolidaysBit, want: "every day excl. holidays"},
		{name: "every day", bits: 127, want: "every day"},
		{name: "single day", bits: 1 << 3, want: "Wed"},
		{name: "weekend", bits: 1 | 1<<6, want: "Sun Sat"},
		{name: "weekend with exclusion", bits: (1 | 1<<6) | ExcludeHolidaysBit, want: "Sun Sat excl. holidays"},
		{name: "no days", bits: 0, want: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			value := Value{WeekdayBits: tt.bits}
			if got := value.Describe(); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}
