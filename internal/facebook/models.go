package facebook

import "fmt"

// postResponse is the Graph API response for post/photo/video creation.
// Depending on the endpoint the produced id arrives as "id" or "post_id".
type postResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id"`
}

func (r postResponse) producedID() string {
	if r.PostID != "" {
		return r.PostID
	}
	return r.ID
}

// Account is one entry of the me/accounts page directory.
type Account struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
	Category    string `json:"category"`
}

type accountsResponse struct {
	Data []Account `json:"data"`
}

// errorEnvelope is the Graph API error wrapper.
type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// APIError is a provider-side failure with the Graph error detail.
type APIError struct {
	StatusCode int
	Code       int
	Type       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("graph api error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("graph api error: unexpected status %d", e.StatusCode)
}
