package export

import (
	"bytes"
	"fmt"

	"zpexport/pkg/logger"
	"zpexport/pkg/storage"
	"zpexport/pkg/zoomphone"
)

// PhoneAPI is the slice of the Zoom Phone client the exporter needs
type PhoneAPI interface {
	ListUsers(pageSize int, siteID string) ([]zoomphone.User, error)
	ListUserRecordings(userID string, pageSize int) ([]zoomphone.Recording, error)
	Download(url string) ([]byte, error)
}

// UserResult summarizes the export outcome for one user
type UserResult struct {
	Email      string
	Recordings int
	Downloaded int
	Skipped    int
	Failures   int
	// Err is set when the user's recordings could not be listed at all
	Err error
}

// Report summarizes a full export run
type Report struct {
	Users           []UserResult
	TotalRecordings int
	TotalDownloaded int
	TotalSkipped    int
	TotalFailures   int
	FailedUsers     int
}

// Exporter downloads call recordings for phone users into local storage,
// skipping files that are already present so a run can be repeated safely
type Exporter struct {
	api               PhoneAPI
	store             *storage.Manager
	logger            logger.Logger
	userPageSize      int
	recordingPageSize int
}

// NewExporter creates an exporter over the given API client and storage
func NewExporter(api PhoneAPI, store *storage.Manager, log logger.Logger, userPageSize, recordingPageSize int) *Exporter {
	if log == nil {
		log = logger.GetLogger()
	}
	if userPageSize <= 0 {
		userPageSize = zoomphone.MaxUserPageSize
	}
	if recordingPageSize <= 0 {
		recordingPageSize = zoomphone.MaxRecordPageSize
	}
	return &Exporter{
		api:               api,
		store:             store,
		logger:            log,
		userPageSize:      userPageSize,
		recordingPageSize: recordingPageSize,
	}
}

// Run exports recordings for the account's phone users. Explicit emails
// are taken as the target users directly, without consulting the user
// listing, so a single-user export needs no listing access. A failure for
// one user is recorded in the report and the run moves on to the next user.
func (e *Exporter) Run(emails []string) (*Report, error) {
	var selected []zoomphone.User
	if len(emails) > 0 {
		for _, email := range emails {
			selected = append(selected, zoomphone.User{Email: email})
		}
	} else {
		users, err := e.api.ListUsers(e.userPageSize, "")
		if err != nil {
			return nil, fmt.Errorf("failed to list phone users: %w", err)
		}
		selected = users
	}

	e.logger.InfoWithFields("starting recording export", map[string]interface{}{
		"users":  len(selected),
		"output": e.store.BaseDir(),
	})

	report := &Report{}
	for _, user := range selected {
		result := e.exportUser(user)
		report.Users = append(report.Users, result)

		report.TotalRecordings += result.Recordings
		report.TotalDownloaded += result.Downloaded
		report.TotalSkipped += result.Skipped
		report.TotalFailures += result.Failures
		if result.Err != nil {
			report.FailedUsers++
		}
	}

	e.logger.InfoWithFields("export complete", map[string]interface{}{
		"recordings":         report.TotalRecordings,
		"downloaded":         report.TotalDownloaded,
		"skipped":            report.TotalSkipped,
		"recording_failures": report.TotalFailures,
		"failed_users":       report.FailedUsers,
	})

	return report, nil
}

// exportUser downloads all recordings for one user. A listing failure
// fails the user; a single bad recording is counted and skipped over.
func (e *Exporter) exportUser(user zoomphone.User) UserResult {
	result := UserResult{Email: user.Email}

	recordings, err := e.api.ListUserRecordings(user.Email, e.recordingPageSize)
	if err != nil {
		e.logger.ErrorWithFields("failed to list recordings", map[string]interface{}{
			"user":  user.Email,
			"error": err.Error(),
		})
		result.Err = err
		return result
	}

	result.Recordings = len(recordings)
	e.logger.InfoWithFields("found recordings", map[string]interface{}{
		"user":  user.Email,
		"count": len(recordings),
	})

	for _, rec := range recordings {
		switch e.exportRecording(user.Email, rec) {
		case outcomeDownloaded:
			result.Downloaded++
		case outcomeSkipped:
			result.Skipped++
		case outcomeFailed:
			result.Failures++
		}
	}

	return result
}

type outcome int

const (
	outcomeDownloaded outcome = iota
	outcomeSkipped
	outcomeFailed
)

// exportRecording fetches one recording to disk unless it is already there
func (e *Exporter) exportRecording(email string, rec zoomphone.Recording) outcome {
	relPath, err := RecordingPath(email, rec)
	if err != nil {
		e.logger.WarnWithFields("skipping recording with bad metadata", map[string]interface{}{
			"user":  email,
			"id":    rec.ID,
			"error": err.Error(),
		})
		return outcomeFailed
	}

	if e.store.Exists(relPath) {
		e.logger.DebugWithFields("recording already exported", map[string]interface{}{
			"path": relPath,
		})
		return outcomeSkipped
	}

	if rec.DownloadURL == "" {
		e.logger.WarnWithFields("recording has no download URL", map[string]interface{}{
			"user": email,
			"id":   rec.ID,
		})
		return outcomeFailed
	}

	data, err := e.api.Download(rec.DownloadURL)
	if err != nil {
		e.logger.ErrorWithFields("failed to download recording", map[string]interface{}{
			"user":  email,
			"id":    rec.ID,
			"error": err.Error(),
		})
		return outcomeFailed
	}

	if err := e.store.Save(relPath, bytes.NewReader(data)); err != nil {
		e.logger.ErrorWithFields("failed to save recording", map[string]interface{}{
			"path":  relPath,
			"error": err.Error(),
		})
		return outcomeFailed
	}

	e.logger.DebugWithFields("exported recording", map[string]interface{}{
		"path": relPath,
		"size": len(data),
	})
	return outcomeDownloaded
}
