package holiday

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func date(value string) time.Time {
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return d
}

func testOracle(t *testing.T) *Oracle {
	t.Helper()

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	table := `dates:
  "2025-10-01": true
  "2025-10-02": true
  "2025-09-28": false
`
	if err := os.WriteFile(path, []byte(table), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	oracle, err := NewOracleFromFile(path)
	if err != nil {
		t.Fatalf("NewOracleFromFile failed: %v", err)
	}
	return oracle
}

func TestIsHoliday(t *testing.T) {
	t.Parallel()

	oracle := testOracle(t)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{name: "listed holiday", date: date("2025-10-01"), want: true},
		{name: "compensating workday is not a holiday", date: date("2025-09-28"), want: false},
		{name: "ordinary weekday", date: date("2025-10-10"), want: false},
		{name: "ordinary weekend", date: date("2025-10-11"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := oracle.IsHoliday(tt.date); got != tt.want {
				t.Errorf("IsHoliday(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestIsWorkday(t *testing.T) {
	t.Parallel()

	oracle := testOracle(t)

	tests := []struct {
		name string
		date time.Time
		want bool
	}{
		{name: "holiday on a weekday", date: date("2025-10-01"), want: false},
		// 2025-09-28 is a Sunday listed as a compensating workday.
		{name: "compensating weekend workday", date: date("2025-09-28"), want: true},
		{name: "ordinary weekday", date: date("2025-10-10"), want: true},
		{name: "ordinary saturday", date: date("2025-10-11"), want: false},
		{name: "ordinary sunday", date: date("2025-10-12"), want: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := oracle.IsWorkday(tt.date); got != tt.want {
				t.Errorf("IsWorkday(%s) = %v, want %v", tt.date.Format("2006-01-02"), got, tt.want)
			}
		})
	}
}

func TestNewOracleEmbedded(t *testing.T) {
	t.Parallel()

	oracle, err := NewOracle()
	if err != nil {
		t.Fatalf("NewOracle failed: %v", err)
	}
	if oracle == nil {
		t.Fatal("NewOracle returned nil")
	}
}

func TestNewOracleFromFileRejectsBadDates(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "holidays.yaml")
	if err := os.WriteFile(path, []byte("dates:\n  \"not-a-date\": true\n"), 0o600); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := NewOracleFromFile(path); err == nil {
		t.Fatal("NewOracleFromFile accepted a malformed date")
	}
}
