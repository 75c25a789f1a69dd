package ledger

import "time"

// DateLayout is the textual date format used throughout the ledger.
const DateLayout = "01/02/2006"

// Today returns the current date as MM/DD/YYYY.
func Today() string {
	return time.Now().Format(DateLayout)
}

// ValidDate reports whether s is a well-formed MM/DD/YYYY date.
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
