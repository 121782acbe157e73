package client

// BaseURL is our default base URL for the voice API (public for testing overriding)
var BaseURL = `https://voice.africastalking.com`

const (
	callPath        = `/call`
	queueStatusPath = `/queueStatus`
)

// CallParams are the caller supplied parameters for placing an outbound call
type CallParams struct {
	To   string `json:"to"   validate:"required,phone"`
	From string `json:"from" validate:"required,phone"`
}

type callRequest struct {
	Username string `json:"username"`
	To       string `json:"to"`
	From     string `json:"from"`
}

// CallEntry is the status of one dialed number in a call response
type CallEntry struct {
	PhoneNumber string `json:"phoneNumber"`
	Status      string `json:"status"`
	SessionID   string `json:"sessionId"`
}

// CallResponse is the response from placing an outbound call
type CallResponse struct {
	Entries      []CallEntry `json:"entries"`
	ErrorMessage string      `json:"errorMessage"`
}

// QueuedCallsParams are the caller supplied parameters for a queue status
// query - a comma separated list of the numbers to query
type QueuedCallsParams struct {
	PhoneNumbers string `json:"phoneNumbers" validate:"required,phone_list"`
}

type queuedCallsRequest struct {
	Username     string `json:"username"`
	PhoneNumbers string `json:"phoneNumbers"`
}

// QueuedCallsEntry is the queued call count for one number
type QueuedCallsEntry struct {
	PhoneNumber string `json:"phoneNumber"`
	NumCalls    int    `json:"numCalls"`
}

// QueuedCallsResponse is the response from a queue status query
type QueuedCallsResponse struct {
	Entries      []QueuedCallsEntry `json:"entries"`
	Status       string             `json:"status"`
	ErrorMessage string             `json:"errorMessage"`
}
