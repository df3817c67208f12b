package zoomphone

import (
	"fmt"
	"net/url"
)

const (
	// DefaultServer is the host and base path for the Zoom REST API
	DefaultServer = "api.zoom.us/v2"

	// UsersEndpoint lists all phone users on the account
	UsersEndpoint = "/phone/users"

	// AccountCallLogsEndpoint lists call logs account-wide
	AccountCallLogsEndpoint = "/phone/call_logs"

	// PhoneNumbersEndpoint lists phone numbers on the account
	PhoneNumbersEndpoint = "/phone/numbers"

	// CallingPlansEndpoint lists calling plans on the account
	CallingPlansEndpoint = "/phone/calling_plans"

	// MaxUserPageSize is the largest page size the user listing accepts
	MaxUserPageSize = 100

	// MaxRecordPageSize is the largest page size the per-user listing
	// endpoints (recordings, call logs, voicemails) accept
	MaxRecordPageSize = 300

	// MaxCallLogWindowDays is the widest from/to range the call log
	// endpoints accept
	MaxCallLogWindowDays = 30
)

// UserEndpoint returns the profile endpoint for a single user
func UserEndpoint(userID string) string {
	return fmt.Sprintf("/phone/users/%s", url.PathEscape(userID))
}

// UserSettingsEndpoint returns the settings endpoint for a single user
func UserSettingsEndpoint(userID string) string {
	return fmt.Sprintf("/phone/users/%s/settings", url.PathEscape(userID))
}

// UserRecordingsEndpoint returns the call recordings endpoint for a user
func UserRecordingsEndpoint(userID string) string {
	return fmt.Sprintf("/phone/users/%s/recordings", url.PathEscape(userID))
}

// UserCallLogsEndpoint returns the call logs endpoint for a user
func UserCallLogsEndpoint(userID string) string {
	return fmt.Sprintf("/phone/users/%s/call_logs", url.PathEscape(userID))
}

// UserVoicemailsEndpoint returns the voicemail endpoint for a user
func UserVoicemailsEndpoint(userID string) string {
	return fmt.Sprintf("/phone/users/%s/voice_mails", url.PathEscape(userID))
}

// PhoneNumberEndpoint returns the detail endpoint for a single number
func PhoneNumberEndpoint(numberID string) string {
	return fmt.Sprintf("/phone/numbers/%s", url.PathEscape(numberID))
}

// validateEnum checks that value is one of the valid choices. Empty values
// pass so optional parameters can be omitted.
func validateEnum(value string, valid []string, errMsg string) error {
	if value == "" {
		return nil
	}
	for _, v := range valid {
		if value == v {
			return nil
		}
	}
	return fmt.Errorf("%s", errMsg)
}

// validatePageSize checks page size bounds for an endpoint
func validatePageSize(pageSize, max int) error {
	if pageSize < 1 || pageSize > max {
		return fmt.Errorf("'page_size' must be between 1 - %d", max)
	}
	return nil
}
