package view

import "github.com/duedesk/apiserver/internal/apperr"

// Client-side error codes.
const (
	NetworkError apperr.Code = "networkError"
	NoSession    apperr.Code = "noSession"
	UnknownError apperr.Code = "unknownError"
)

var messages = map[apperr.Code]string{
	apperr.AuthMissing:           "You must be logged in to access this feature",
	apperr.AuthNoUser:            "Username not found. Please register first",
	apperr.AuthInsufficient:      "This username is not allowed. Please choose another username",
	apperr.RequiredUsername:      "Please enter a valid username",
	apperr.RequiredFieldsMissing: "Please fill in all required fields",
	apperr.InvalidDate:           "Please enter a valid date",
	apperr.UsernameExists:        "Username already exists. Please choose another or log in.",
	NetworkError:                 "Network error, please try again",
	NoSession:                    "Session information is missing. Please log in",
}

// Message returns the text shown to the user for code.
func Message(code apperr.Code) string {
	if msg, ok := messages[code]; ok {
		return msg
	}
	return apperr.GenericMessage
}
