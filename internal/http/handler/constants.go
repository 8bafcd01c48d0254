package handler

const (
	jsonKeyMessage = "message"

	paramID = "id"

	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgUnknownField            = "is not a recognized field"
	msgInvalidFieldType        = "has an invalid type"
	msgInvalidProposalID       = "invalid proposal id"
	msgRequiredAmount          = "is required"
	msgInternalServerError     = "internal server error"
	msgLoggedOut               = "logged out"
	msgCSRFTokenFail           = "failed to issue CSRF token"
)
