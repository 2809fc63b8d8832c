package utils // package utils provides time and password helpers shared by the services

import "time"

// istOffset is UTC+05:30.  Ticket timestamps are recorded in this fixed
// offset regardless of the server or database clock so existing reports
// built on the table keep lining up.
const istOffset = 330 * 60

// IST is the fixed India Standard Time zone.
var IST = time.FixedZone("IST", istOffset)

// NowIST returns the current time expressed in IST.
func NowIST() time.Time {
	return time.Now().In(IST)
}
