package response

const (
	// DefaultErrorMessage is the detail of every 500 response.
	DefaultErrorMessage = "Internal server error"
)

// ErrorResp is the error body: {"detail": "..."}.
// Error carries the underlying error in development only.
type ErrorResp struct {
	Detail string `json:"detail"`
	Error  string `json:"error,omitempty"`
}
