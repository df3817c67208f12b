package zoomphone

// User represents a Zoom Phone user
type User struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	ExtensionNumber int64  `json:"extension_number"`
	Status          string `json:"status"`
	Site            Site   `json:"site"`
	PhoneUserID     string `json:"phone_user_id"`
}

// Site represents a Zoom Phone site
type Site struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Recording represents call recording metadata, distinct from the MP3
// bytes themselves
type Recording struct {
	ID               string `json:"id"`
	CallerNumber     string `json:"caller_number"`
	CallerNumberType int    `json:"caller_number_type"`
	CalleeNumber     string `json:"callee_number"`
	CalleeNumberType int    `json:"callee_number_type"`
	DateTime         string `json:"date_time"`
	Direction        string `json:"direction"`
	Duration         int    `json:"duration"`
	DownloadURL      string `json:"download_url"`
}

// CallLog represents a single call log entry
type CallLog struct {
	ID           string `json:"id"`
	CallerNumber string `json:"caller_number"`
	CalleeNumber string `json:"callee_number"`
	DateTime     string `json:"date_time"`
	Direction    string `json:"direction"`
	Duration     int    `json:"duration"`
	Result       string `json:"result"`
}

// Voicemail represents a voicemail message
type Voicemail struct {
	ID           string `json:"id"`
	CallerNumber string `json:"caller_number"`
	CalleeNumber string `json:"callee_number"`
	DateTime     string `json:"date_time"`
	Duration     int    `json:"duration"`
	Status       string `json:"status"`
	DownloadURL  string `json:"download_url"`
}

// PhoneNumber represents a phone number provisioned on the account
type PhoneNumber struct {
	ID         string    `json:"id"`
	Number     string    `json:"number"`
	Type       string    `json:"type"`
	NumberType string    `json:"number_type"`
	Status     string    `json:"status"`
	Site       Site      `json:"site"`
	Assignee   *Assignee `json:"assignee,omitempty"`
}

// Assignee identifies the extension a phone number is assigned to
type Assignee struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Type            string `json:"type"`
	ExtensionNumber int64  `json:"extension_number"`
}

// CallingPlan represents a calling plan on the account
type CallingPlan struct {
	Type int    `json:"type"`
	Name string `json:"name"`
}

// UserProfile is the raw profile object for a single phone user
type UserProfile struct {
	ID              string        `json:"id"`
	Email           string        `json:"email"`
	ExtensionNumber int64         `json:"extension_number"`
	Status          string        `json:"status"`
	Site            Site          `json:"site"`
	PhoneNumbers    []PhoneNumber `json:"phone_numbers"`
	CallingPlans    []CallingPlan `json:"calling_plans"`
}
