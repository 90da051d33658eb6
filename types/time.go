package types

import "time"

// IST is the fixed UTC+5:30 zone used for stamping and displaying timestamps.
var IST = time.FixedZone("IST", 5*60*60+30*60)

const displayLayout = "Jan 02, 2006 03:04 PM"

// Now returns the current instant in IST.
func Now() time.Time {
	return time.Now().In(IST)
}

// FormatIST renders t as "Jan 02, 2006 03:04 PM IST". The zero time renders empty.
func FormatIST(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(IST).Format(displayLayout) + " IST"
}
