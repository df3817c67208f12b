package export

import (
	"fmt"
	"time"

	"zpexport/pkg/zoomphone"
)

// recordingTimeLayout is the timestamp format of recording metadata
const recordingTimeLayout = "2006-01-02T15:04:05Z"

// RecordingPath derives the relative storage path of a recording from its
// metadata and the owning user's email:
//
//	<year>/<month>/<email>/YYYYMMDD-HHMM-<caller>-<callee>.mp3
//
// The month directory is unpadded while the date and time in the filename
// are zero-padded, so the same recording always maps to the same path.
func RecordingPath(email string, rec zoomphone.Recording) (string, error) {
	ts, err := time.Parse(recordingTimeLayout, rec.DateTime)
	if err != nil {
		return "", fmt.Errorf("invalid recording timestamp %q: %w", rec.DateTime, err)
	}

	filename := fmt.Sprintf("%04d%02d%02d-%02d%02d-%s-%s.mp3",
		ts.Year(), ts.Month(), ts.Day(),
		ts.Hour(), ts.Minute(),
		rec.CallerNumber, rec.CalleeNumber)

	return fmt.Sprintf("%d/%d/%s/%s", ts.Year(), int(ts.Month()), email, filename), nil
}
