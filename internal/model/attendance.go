package model

// DateLayout is the calendar-day format used for attendance dates.
const DateLayout = "2006-01-02"

// DayRecord holds one mess's attendance for one calendar day. Records maps
// student ID to true (ate) or false (skipped); a missing ID means nothing
// was recorded.
type DayRecord struct {
	Date    string          `json:"date"`
	MessID  string          `json:"messId"`
	Records map[string]bool `json:"records"`
}

// Present counts the students marked true.
func (d DayRecord) Present() int {
	n := 0
	for _, ate := range d.Records {
		if ate {
			n++
		}
	}
	return n
}
