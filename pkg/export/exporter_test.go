package export

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zpexport/pkg/logger"
	"zpexport/pkg/storage"
	"zpexport/pkg/zoomphone"
)

// mockAPI scripts the exporter's view of the phone API
type mockAPI struct {
	users         []zoomphone.User
	listUsersErr  error
	listUsersCall int
	recordings    map[string][]zoomphone.Recording
	listErr       map[string]error
	files         map[string][]byte
	downloads     int
}

func (m *mockAPI) ListUsers(pageSize int, siteID string) ([]zoomphone.User, error) {
	m.listUsersCall++
	if m.listUsersErr != nil {
		return nil, m.listUsersErr
	}
	return m.users, nil
}

func (m *mockAPI) ListUserRecordings(userID string, pageSize int) ([]zoomphone.Recording, error) {
	if err := m.listErr[userID]; err != nil {
		return nil, err
	}
	return m.recordings[userID], nil
}

func (m *mockAPI) Download(url string) ([]byte, error) {
	m.downloads++
	data, ok := m.files[url]
	if !ok {
		return nil, fmt.Errorf("download failed: %s", url)
	}
	return data, nil
}

func newTestExporter(t *testing.T, api *mockAPI) (*Exporter, *storage.Manager) {
	t.Helper()
	store, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)
	return NewExporter(api, store, logger.NewTestLogger(), 100, 300), store
}

func recording(id, dateTime, url string) zoomphone.Recording {
	return zoomphone.Recording{
		ID:           id,
		DateTime:     dateTime,
		CallerNumber: "16505551212",
		CalleeNumber: "104",
		DownloadURL:  url,
	}
}

func TestRunExportsAllUsers(t *testing.T) {
	api := &mockAPI{
		users: []zoomphone.User{
			{ID: "u1", Email: "alice@example.com"},
			{ID: "u2", Email: "bob@example.com"},
		},
		recordings: map[string][]zoomphone.Recording{
			"alice@example.com": {recording("r1", "2020-08-21T22:17:05Z", "https://dl/r1")},
			"bob@example.com":   {recording("r2", "2020-09-01T08:30:00Z", "https://dl/r2")},
		},
		files: map[string][]byte{
			"https://dl/r1": []byte("audio1"),
			"https://dl/r2": []byte("audio2"),
		},
	}

	exporter, store := newTestExporter(t, api)
	report, err := exporter.Run(nil)
	require.NoError(t, err)

	assert.Equal(t, 2, report.TotalRecordings)
	assert.Equal(t, 2, report.TotalDownloaded)
	assert.Equal(t, 0, report.TotalSkipped)
	assert.Equal(t, 0, report.TotalFailures)
	assert.Equal(t, 0, report.FailedUsers)

	assert.True(t, store.Exists("2020/8/alice@example.com/20200821-2217-16505551212-104.mp3"))
	assert.True(t, store.Exists("2020/9/bob@example.com/20200901-0830-16505551212-104.mp3"))
}

func TestRunExplicitEmailsSkipTheListing(t *testing.T) {
	api := &mockAPI{
		recordings: map[string][]zoomphone.Recording{
			"alice@example.com": {recording("r1", "2020-08-21T22:17:05Z", "https://dl/r1")},
			"bob@example.com":   {recording("r2", "2020-09-01T08:30:00Z", "https://dl/r2")},
		},
		files: map[string][]byte{
			"https://dl/r1": []byte("audio1"),
			"https://dl/r2": []byte("audio2"),
		},
	}

	exporter, _ := newTestExporter(t, api)
	report, err := exporter.Run([]string{"alice@example.com"})
	require.NoError(t, err)

	require.Len(t, report.Users, 1)
	assert.Equal(t, "alice@example.com", report.Users[0].Email)
	assert.Equal(t, 1, report.TotalDownloaded)

	// explicit emails are taken as-is, with no user listing request
	assert.Equal(t, 0, api.listUsersCall)
}

func TestRunExplicitEmailWorksWithoutListingAccess(t *testing.T) {
	api := &mockAPI{
		listUsersErr: fmt.Errorf("listing forbidden"),
		recordings: map[string][]zoomphone.Recording{
			"alice@example.com": {recording("r1", "2020-08-21T22:17:05Z", "https://dl/r1")},
		},
		files: map[string][]byte{"https://dl/r1": []byte("audio1")},
	}

	exporter, store := newTestExporter(t, api)
	report, err := exporter.Run([]string{"alice@example.com"})
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalDownloaded)
	assert.True(t, store.Exists("2020/8/alice@example.com/20200821-2217-16505551212-104.mp3"))

	// the listing error still surfaces when no emails are given
	_, err = exporter.Run(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing forbidden")
}

func TestRerunSkipsExistingFiles(t *testing.T) {
	api := &mockAPI{
		users: []zoomphone.User{{ID: "u1", Email: "alice@example.com"}},
		recordings: map[string][]zoomphone.Recording{
			"alice@example.com": {recording("r1", "2020-08-21T22:17:05Z", "https://dl/r1")},
		},
		files: map[string][]byte{"https://dl/r1": []byte("audio1")},
	}

	exporter, _ := newTestExporter(t, api)

	first, err := exporter.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalDownloaded)

	second, err := exporter.Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, second.TotalDownloaded)
	assert.Equal(t, 1, second.TotalSkipped)

	// the file was fetched exactly once across both runs
	assert.Equal(t, 1, api.downloads)
}

func TestOneUserFailureDoesNotStopTheRun(t *testing.T) {
	api := &mockAPI{
		users: []zoomphone.User{
			{ID: "u1", Email: "alice@example.com"},
			{ID: "u2", Email: "bob@example.com"},
		},
		recordings: map[string][]zoomphone.Recording{
			"bob@example.com": {recording("r2", "2020-09-01T08:30:00Z", "https://dl/r2")},
		},
		listErr: map[string]error{
			"alice@example.com": fmt.Errorf("no recordings records in API response"),
		},
		files: map[string][]byte{"https://dl/r2": []byte("audio2")},
	}

	exporter, _ := newTestExporter(t, api)
	report, err := exporter.Run(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.FailedUsers)
	assert.Equal(t, 1, report.TotalDownloaded)

	require.Len(t, report.Users, 2)
	assert.Error(t, report.Users[0].Err)
	assert.NoError(t, report.Users[1].Err)
}

func TestFailedDownloadIsCountedAndRunContinues(t *testing.T) {
	api := &mockAPI{
		users: []zoomphone.User{{ID: "u1", Email: "alice@example.com"}},
		recordings: map[string][]zoomphone.Recording{
			"alice@example.com": {
				recording("r1", "2020-08-21T22:17:05Z", "https://dl/missing"),
				recording("r2", "2020-08-22T10:00:00Z", "https://dl/r2"),
			},
		},
		files: map[string][]byte{"https://dl/r2": []byte("audio2")},
	}

	exporter, _ := newTestExporter(t, api)
	report, err := exporter.Run(nil)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalFailures)
	assert.Equal(t, 1, report.TotalDownloaded)
	assert.Equal(t, 0, report.FailedUsers)
}

func TestCompletionLogSeparatesFailureKinds(t *testing.T) {
	api := &mockAPI{
		users: []zoomphone.User{
			{ID: "u1", Email: "alice@example.com"},
			{ID: "u2", Email: "bob@example.com"},
		},
		recordings: map[string][]zoomphone.Recording{
			"bob@example.com": {recording("r2", "2020-09-01T08:30:00Z", "https://dl/missing")},
		},
		listErr: map[string]error{
			"alice@example.com": fmt.Errorf("no recordings records in API response"),
		},
	}

	log := logger.NewTestLogger()
	store, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)

	report, err := NewExporter(api, store, log, 100, 300).Run(nil)
	require.NoError(t, err)
	assert.Equal(t, 1, report.FailedUsers)
	assert.Equal(t, 1, report.TotalFailures)

	var done *logger.LogMessage
	for _, msg := range log.GetMessages() {
		if msg.Message == "export complete" {
			m := msg
			done = &m
		}
	}
	require.NotNil(t, done)

	// failed recordings and failed users stay separate counts
	assert.Equal(t, 1, done.Fields["recording_failures"])
	assert.Equal(t, 1, done.Fields["failed_users"])
}

func TestBadMetadataCountsAsFailure(t *testing.T) {
	api := &mockAPI{
		users: []zoomphone.User{{ID: "u1", Email: "alice@example.com"}},
		recordings: map[string][]zoomphone.Recording{
			"alice@example.com": {
				{ID: "r1", DateTime: "garbage", DownloadURL: "https://dl/r1"},
				recording("r2", "2020-08-22T10:00:00Z", ""),
			},
		},
	}

	exporter, _ := newTestExporter(t, api)
	report, err := exporter.Run(nil)
	require.NoError(t, err)

	// bad timestamp and missing download URL both count as failures
	assert.Equal(t, 2, report.TotalFailures)
	assert.Equal(t, 0, report.TotalDownloaded)
	assert.Equal(t, 0, api.downloads)
}
