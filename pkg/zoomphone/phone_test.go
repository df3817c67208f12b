package zoomphone

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListUsersRejectsBadPageSize(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	for _, size := range []int{0, -1, 101} {
		_, err := client.ListUsers(size, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'page_size' must be between 1 - 100")
	}
}

func TestListUserRecordingsQueryAndField(t *testing.T) {
	var gotPath, gotPageSize string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		gotPageSize = req.URL.Query().Get("page_size")
		return jsonResponse(http.StatusOK, `{
			"recordings": [
				{"id": "r1", "date_time": "2020-08-21T22:17:05Z", "download_url": "https://example.com/dl/r1"}
			],
			"next_page_token": ""
		}`), nil
	})

	recordings, err := client.ListUserRecordings("alice@example.com", 300)
	require.NoError(t, err)
	require.Len(t, recordings, 1)
	assert.Equal(t, "r1", recordings[0].ID)
	assert.Equal(t, "/v2/phone/users/alice@example.com/recordings", gotPath)
	assert.Equal(t, "300", gotPageSize)
}

func TestListUserRecordingsPageSizeBounds(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	_, err := client.ListUserRecordings("u1", 301)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 - 300")
}

func TestListUserCallLogsWindow(t *testing.T) {
	var query map[string]string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		query = map[string]string{
			"from": req.URL.Query().Get("from"),
			"to":   req.URL.Query().Get("to"),
			"type": req.URL.Query().Get("type"),
		}
		return jsonResponse(http.StatusOK, `{"call_logs": [{"id": "c1"}], "next_page_token": ""}`), nil
	})

	from := time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2020, 8, 30, 0, 0, 0, 0, time.UTC)

	logs, err := client.ListUserCallLogs("u1", 300, from, to, "missed")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "2020-08-01", query["from"])
	assert.Equal(t, "2020-08-30", query["to"])
	assert.Equal(t, "missed", query["type"])
}

func TestCallLogWindowValidation(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	from := time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)

	t.Run("window too wide", func(t *testing.T) {
		_, err := client.ListUserCallLogs("u1", 300, from, from.AddDate(0, 0, 31), "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "30 days")
	})

	t.Run("to before from", func(t *testing.T) {
		_, err := client.ListUserCallLogs("u1", 300, from, from.AddDate(0, 0, -1), "")
		require.Error(t, err)
	})

	t.Run("only one bound", func(t *testing.T) {
		_, err := client.ListUserCallLogs("u1", 300, from, time.Time{}, "")
		require.Error(t, err)
	})

	t.Run("bad type", func(t *testing.T) {
		_, err := client.ListUserCallLogs("u1", 300, time.Time{}, time.Time{}, "inbound")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "'type'")
	})
}

func TestListAccountCallLogs(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		return jsonResponse(http.StatusOK, `{"call_logs": [], "next_page_token": ""}`), nil
	})

	_, err := client.ListAccountCallLogs(300, time.Time{}, time.Time{}, "")
	require.NoError(t, err)
	assert.Equal(t, "/v2/phone/call_logs", gotPath)
}

func TestListUserVoicemails(t *testing.T) {
	var gotStatus string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotStatus = req.URL.Query().Get("status")
		return jsonResponse(http.StatusOK, `{"voice_mails": [{"id": "v1"}], "next_page_token": ""}`), nil
	})

	mails, err := client.ListUserVoicemails("u1", 300, "unread")
	require.NoError(t, err)
	require.Len(t, mails, 1)
	assert.Equal(t, "unread", gotStatus)

	_, err = client.ListUserVoicemails("u1", 300, "archived")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "'status'")
}

func TestListPhoneNumbersFilters(t *testing.T) {
	var query map[string]string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		query = map[string]string{
			"type":           req.URL.Query().Get("type"),
			"extension_type": req.URL.Query().Get("extension_type"),
			"number_type":    req.URL.Query().Get("number_type"),
		}
		return jsonResponse(http.StatusOK, `{"phone_numbers": [], "next_page_token": ""}`), nil
	})

	_, err := client.ListPhoneNumbers(100, PhoneNumberFilter{
		Type:          "all",
		ExtensionType: "callQueue",
		NumberType:    "tollfree",
	})
	require.NoError(t, err)
	assert.Equal(t, "all", query["type"])
	assert.Equal(t, "callQueue", query["extension_type"])
	assert.Equal(t, "tollfree", query["number_type"])
}

func TestListPhoneNumbersExtensionTypeForcesAssigned(t *testing.T) {
	var gotType string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotType = req.URL.Query().Get("type")
		return jsonResponse(http.StatusOK, `{"phone_numbers": [], "next_page_token": ""}`), nil
	})

	_, err := client.ListPhoneNumbers(100, PhoneNumberFilter{ExtensionType: "user"})
	require.NoError(t, err)
	assert.Equal(t, "assigned", gotType)
}

func TestListPhoneNumbersEnumValidation(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	_, err := client.ListPhoneNumbers(100, PhoneNumberFilter{Type: "reserved"})
	require.Error(t, err)

	_, err = client.ListPhoneNumbers(100, PhoneNumberFilter{ExtensionType: "queue"})
	require.Error(t, err)

	_, err = client.ListPhoneNumbers(100, PhoneNumberFilter{NumberType: "mobile"})
	require.Error(t, err)
}

func TestGetUserSettings(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		gotPath = req.URL.Path
		return jsonResponse(http.StatusOK, `{"call_recording": {"enable": true}}`), nil
	})

	settings, err := client.GetUserSettings("u1")
	require.NoError(t, err)
	assert.Equal(t, "/v2/phone/users/u1/settings", gotPath)
	assert.Contains(t, settings, "call_recording")
}

func TestGetPhoneNumber(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "/v2/phone/numbers/n1", req.URL.Path)
		return jsonResponse(http.StatusOK, `{
			"id": "n1",
			"number": "+16505551212",
			"assignee": {"name": "Alice", "extension_number": 104}
		}`), nil
	})

	number, err := client.GetPhoneNumber("n1")
	require.NoError(t, err)
	assert.Equal(t, "+16505551212", number.Number)
	require.NotNil(t, number.Assignee)
	assert.Equal(t, int64(104), number.Assignee.ExtensionNumber)
}

func TestListCallingPlans(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"calling_plans": [{"type": 200, "name": "US/CA Unlimited"}]}`), nil
	})

	plans, err := client.ListCallingPlans()
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, 200, plans[0].Type)
	assert.Equal(t, "US/CA Unlimited", plans[0].Name)
}

func TestUpdateUserProfileSequentialPatches(t *testing.T) {
	var bodies []string
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		buf := make([]byte, 256)
		n, _ := req.Body.Read(buf)
		bodies = append(bodies, string(buf[:n]))
		return jsonResponse(http.StatusNoContent, ``), nil
	})

	err := client.UpdateUserProfile("u1", UserProfileUpdate{
		SiteID:          "s1",
		ExtensionNumber: "105",
	})
	require.NoError(t, err)

	// site change lands first, extension change second
	require.Len(t, bodies, 2)
	assert.JSONEq(t, `{"site_id": "s1"}`, bodies[0])
	assert.JSONEq(t, `{"extension_number": "105"}`, bodies[1])
}

func TestUpdateUserProfileRequiresFields(t *testing.T) {
	client := newTestClient(t, func(req *http.Request) (*http.Response, error) {
		t.Fatal("no request expected")
		return nil, nil
	})

	err := client.UpdateUserProfile("u1", UserProfileUpdate{})
	require.Error(t, err)
}
