package services

import "time"

const dateLayout = "2006-01-02"

// parseDate parses an optional YYYY-MM-DD string into dst. A nil or empty
// input leaves dst nil.
func parseDate(raw *string, dst **time.Time) error {
	if raw == nil || *raw == "" {
		return nil
	}
	parsed, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return err
	}
	*dst = &parsed
	return nil
}
