package summary

import "time"

const dateLayout = "2006-01-02"

// CycleDate assigns a transaction to its business-day bucket: created_at is
// shifted by shiftHours and the shifted hour compared against boundaryHour.
// At or past the boundary the bucket is the shifted day, before it the
// previous day. The shift and the comparison are separate knobs on purpose;
// do not fold them into a single offset.
func CycleDate(createdAt time.Time, shiftHours, boundaryHour int) string {
	shifted := createdAt.UTC().Add(time.Duration(shiftHours) * time.Hour)
	if shifted.Hour() >= boundaryHour {
		return shifted.Format(dateLayout)
	}
	return shifted.AddDate(0, 0, -1).Format(dateLayout)
}
