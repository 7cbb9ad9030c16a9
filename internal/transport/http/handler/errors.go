package handler

const (
	errInternalServer      = "Internal server error"
	errInvalidCredentials  = "Mail or password is incorrect"
	errPasswordNotSet      = "Password has not been set for this account"
	errDuplicateMail       = "This mail address is already registered"
	errMissingHelperFields = "Nickname, phone number and relationship are required for helpers"
	errHelperNotFound      = "Helper not found"
	errConnectionNotFound  = "Connection not found"
	errAlreadyRequested    = "Connection request already sent"
	errAlreadyConnected    = "Already connected"
	errAlreadyResolved     = "Connection request already settled"
	errForbidden           = "Forbidden"
	errContactNotFound     = "Emergency contact not found"
	errDuplicateContact    = "Emergency contact already exists for this helper"
	errAlertNotFound       = "Alert not found"
)
