package utils

import "time"

const ISODateLayout = "2006-01-02"

// IsISODate reports whether s is a well-formed YYYY-MM-DD calendar date.
func IsISODate(s string) bool {
	_, err := time.Parse(ISODateLayout, s)
	return err == nil
}

// ShiftYears moves an ISO date by the given number of whole years, keeping
// month and day (Go's date normalization applies to Feb 29).
func ShiftYears(date string, years int) (string, error) {
	d, err := time.Parse(ISODateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(years, 0, 0).Format(ISODateLayout), nil
}
