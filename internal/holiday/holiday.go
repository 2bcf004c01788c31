// Package holiday answers "is this calendar date a public holiday".
// The table maps dates to true (holiday) or false (compensating workday,
// a weekend day moved onto the working calendar). Dates absent from the
// table are ordinary days.
package holiday

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed holidays.yaml
var embeddedTable []byte

const dateLayout = "2006-01-02"

// Oracle reports holiday status for calendar dates
type Oracle struct {
	dates map[string]bool
}

// NewOracle builds an oracle from the embedded holiday table
func NewOracle() (*Oracle, error) {
	return parseTable(embeddedTable)
}

// NewOracleFromFile builds an oracle from a YAML file, for users whose
// regional calendar differs from the embedded one
func NewOracleFromFile(path string) (*Oracle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read holiday table: %w", err)
	}
	return parseTable(data)
}

func parseTable(data []byte) (*Oracle, error) {
	var table struct {
		Dates map[string]bool `yaml:"dates"`
	}
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("failed to parse holiday table: %w", err)
	}
	for date := range table.Dates {
		if _, err := time.Parse(dateLayout, date); err != nil {
			return nil, fmt.Errorf("invalid date %q in holiday table: %w", date, err)
		}
	}
	return &Oracle{dates: table.Dates}, nil
}

// IsHoliday reports whether the date is a public holiday. Compensating
// workdays and unlisted dates are not holidays.
func (o *Oracle) IsHoliday(date time.Time) bool {
	return o.dates[date.Format(dateLayout)]
}

// IsWorkday reports whether the date is a working day: a weekday that is
// not a holiday, or a weekend listed as a compensating workday
func (o *Oracle) IsWorkday(date time.Time) bool {
	key := date.Format(dateLayout)
	if isHoliday, listed := o.dates[key]; listed {
		return !isHoliday
	}
	weekday := date.Weekday()
	return weekday != time.Saturday && weekday != time.Sunday
}
