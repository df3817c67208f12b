package zoomphone

import (
	"fmt"
	"net/url"
	"strconv"
	"time"
)

// validCallLogTypes are the accepted values for the call log type filter
var validCallLogTypes = []string{"all", "missed"}

// validVoicemailStatuses are the accepted values for the voicemail status filter
var validVoicemailStatuses = []string{"all", "read", "unread"}

// validNumberTypes are the accepted values for the phone number type filter
var validNumberTypes = []string{"assigned", "unassigned", "all"}

// validExtensionTypes are the accepted values for the extension type filter
var validExtensionTypes = []string{"user", "callQueue", "autoReceptionist", "commonAreaPhone"}

// validNumberKinds are the accepted values for the toll/tollfree filter
var validNumberKinds = []string{"toll", "tollfree"}

// ListUsers retrieves every phone user on the account, walking all pages.
// The optional siteID restricts the listing to one site.
func (c *Client) ListUsers(pageSize int, siteID string) ([]User, error) {
	if err := validatePageSize(pageSize, MaxUserPageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))
	if siteID != "" {
		params.Set("site_id", siteID)
	}

	users, err := fetchAll[User](c, UsersEndpoint, params, "users")
	if err != nil {
		return nil, err
	}

	c.logger.InfoWithFields("listed phone users", map[string]interface{}{
		"count": len(users),
	})
	return users, nil
}

// GetUserProfile retrieves the profile of a single phone user by ID or email
func (c *Client) GetUserProfile(userID string) (*UserProfile, error) {
	var profile UserProfile
	if err := c.GetRaw(UserEndpoint(userID), nil, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetUserSettings retrieves the settings object of a single phone user.
// The settings shape varies by account so it is returned undecoded.
func (c *Client) GetUserSettings(userID string) (map[string]interface{}, error) {
	settings := map[string]interface{}{}
	if err := c.GetRaw(UserSettingsEndpoint(userID), nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ListUserRecordings retrieves all call recording metadata for a user
func (c *Client) ListUserRecordings(userID string, pageSize int) ([]Recording, error) {
	if err := validatePageSize(pageSize, MaxRecordPageSize); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))

	return fetchAll[Recording](c, UserRecordingsEndpoint(userID), params, "recordings")
}

// callLogParams validates and encodes the shared call log query parameters
func callLogParams(pageSize int, from, to time.Time, callType string) (url.Values, error) {
	if err := validatePageSize(pageSize, MaxRecordPageSize); err != nil {
		return nil, err
	}
	if err := validateEnum(callType, validCallLogTypes,
		"'type' must be 'all' or 'missed'"); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))

	if !from.IsZero() || !to.IsZero() {
		if from.IsZero() || to.IsZero() {
			return nil, fmt.Errorf("'from' and 'to' must be given together")
		}
		if to.Before(from) {
			return nil, fmt.Errorf("'to' must not precede 'from'")
		}
		if to.Sub(from) > MaxCallLogWindowDays*24*time.Hour {
			return nil, fmt.Errorf("'from' and 'to' must span at most %d days", MaxCallLogWindowDays)
		}
		params.Set("from", from.Format("2006-01-02"))
		params.Set("to", to.Format("2006-01-02"))
	}
	if callType != "" {
		params.Set("type", callType)
	}

	return params, nil
}

// ListUserCallLogs retrieves call logs for a user. The from/to window may
// span at most 30 days; callType filters to all or missed calls.
func (c *Client) ListUserCallLogs(userID string, pageSize int, from, to time.Time, callType string) ([]CallLog, error) {
	params, err := callLogParams(pageSize, from, to, callType)
	if err != nil {
		return nil, err
	}
	return fetchAll[CallLog](c, UserCallLogsEndpoint(userID), params, "call_logs")
}

// ListAccountCallLogs retrieves call logs account-wide under the same
// window and type constraints as the per-user listing
func (c *Client) ListAccountCallLogs(pageSize int, from, to time.Time, callType string) ([]CallLog, error) {
	params, err := callLogParams(pageSize, from, to, callType)
	if err != nil {
		return nil, err
	}
	return fetchAll[CallLog](c, AccountCallLogsEndpoint, params, "call_logs")
}

// ListUserVoicemails retrieves voicemail messages for a user, optionally
// filtered by read status
func (c *Client) ListUserVoicemails(userID string, pageSize int, status string) ([]Voicemail, error) {
	if err := validatePageSize(pageSize, MaxRecordPageSize); err != nil {
		return nil, err
	}
	if err := validateEnum(status, validVoicemailStatuses,
		"'status' must be 'all', 'read' or 'unread'"); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))
	if status != "" {
		params.Set("status", status)
	}

	return fetchAll[Voicemail](c, UserVoicemailsEndpoint(userID), params, "voice_mails")
}

// PhoneNumberFilter narrows a phone number listing. Zero values mean no
// filtering on that dimension.
type PhoneNumberFilter struct {
	// Type filters by assignment state: assigned, unassigned or all
	Type string
	// ExtensionType filters assigned numbers by the kind of extension:
	// user, callQueue, autoReceptionist or commonAreaPhone
	ExtensionType string
	// NumberType filters by toll or tollfree
	NumberType string
	// PendingNumbers limits the listing to numbers pending provisioning
	PendingNumbers bool
	// SiteID restricts the listing to one site
	SiteID string
}

// ListPhoneNumbers retrieves phone numbers on the account. An extension
// type filter only applies to assigned numbers, so setting it without an
// explicit type forces type=assigned.
func (c *Client) ListPhoneNumbers(pageSize int, filter PhoneNumberFilter) ([]PhoneNumber, error) {
	if err := validatePageSize(pageSize, MaxUserPageSize); err != nil {
		return nil, err
	}
	if err := validateEnum(filter.Type, validNumberTypes,
		"'type' must be 'assigned', 'unassigned' or 'all'"); err != nil {
		return nil, err
	}
	if err := validateEnum(filter.ExtensionType, validExtensionTypes,
		"'extension_type' must be 'user', 'callQueue', 'autoReceptionist' or 'commonAreaPhone'"); err != nil {
		return nil, err
	}
	if err := validateEnum(filter.NumberType, validNumberKinds,
		"'number_type' must be 'toll' or 'tollfree'"); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("page_size", strconv.Itoa(pageSize))
	if filter.ExtensionType != "" && filter.Type == "" {
		filter.Type = "assigned"
	}
	if filter.Type != "" {
		params.Set("type", filter.Type)
	}
	if filter.ExtensionType != "" {
		params.Set("extension_type", filter.ExtensionType)
	}
	if filter.NumberType != "" {
		params.Set("number_type", filter.NumberType)
	}
	if filter.PendingNumbers {
		params.Set("pending_numbers", "true")
	}
	if filter.SiteID != "" {
		params.Set("site_id", filter.SiteID)
	}

	return fetchAll[PhoneNumber](c, PhoneNumbersEndpoint, params, "phone_numbers")
}

// GetPhoneNumber retrieves the details of a single phone number
func (c *Client) GetPhoneNumber(numberID string) (*PhoneNumber, error) {
	var number PhoneNumber
	if err := c.GetRaw(PhoneNumberEndpoint(numberID), nil, &number); err != nil {
		return nil, err
	}
	return &number, nil
}

// ListCallingPlans retrieves calling plans on the account
func (c *Client) ListCallingPlans() ([]CallingPlan, error) {
	return fetchAll[CallingPlan](c, CallingPlansEndpoint, nil, "calling_plans")
}

// UserProfileUpdate holds the mutable fields of a phone user profile.
// Empty fields are left untouched.
type UserProfileUpdate struct {
	SiteID          string
	ExtensionNumber string
}

// UpdateUserProfile applies profile changes to a phone user. The API
// rejects a combined site and extension change, so when both are given
// they are sent as two sequential PATCHes with a pause between them to
// let the site move settle.
func (c *Client) UpdateUserProfile(userID string, update UserProfileUpdate) error {
	if update.SiteID == "" && update.ExtensionNumber == "" {
		return fmt.Errorf("no profile fields to update")
	}

	endpoint := UserEndpoint(userID)

	if update.SiteID != "" {
		payload := map[string]string{"site_id": update.SiteID}
		if _, err := c.patch(endpoint, nil, payload); err != nil {
			return err
		}
		c.logger.InfoWithFields("updated user site", map[string]interface{}{
			"user_id": userID,
			"site_id": update.SiteID,
		})

		if update.ExtensionNumber != "" {
			if err := c.sleep(c.retryConfig().Context, c.rateLimitPause); err != nil {
				return err
			}
		}
	}

	if update.ExtensionNumber != "" {
		payload := map[string]string{"extension_number": update.ExtensionNumber}
		if _, err := c.patch(endpoint, nil, payload); err != nil {
			return err
		}
		c.logger.InfoWithFields("updated user extension", map[string]interface{}{
			"user_id":          userID,
			"extension_number": update.ExtensionNumber,
		})
	}

	return nil
}
