package response

var (
	ErrInvalidRequestFormat = ErrorResponse{
		Status:  "error",
		Error:   "invalid_request",
		Details: "Invalid request format",
	}

	ErrAuthenticationFailed = ErrorResponse{
		Status:  "error",
		Error:   "authentication_failed",
		Details: "Invalid credentials. Access is whitelisted only.",
	}

	ErrForbidden = ErrorResponse{
		Status:  "error",
		Error:   "forbidden",
		Details: "Only the item owner may do that",
	}

	ErrNotFound = ErrorResponse{
		Status:  "error",
		Error:   "not_found",
		Details: "Nothing lives at this address",
	}

	ErrNotImplemented = ErrorResponse{
		Status:  "error",
		Error:   "not_implemented",
		Details: "Editing is not implemented",
	}
)
