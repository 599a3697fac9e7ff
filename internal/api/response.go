package api

// ResponseData is the uniform JSON envelope of every endpoint. Status is
// mirrored in the HTTP status code and kept out of the body.
type ResponseData struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Results any    `json:"results,omitempty"`
}
