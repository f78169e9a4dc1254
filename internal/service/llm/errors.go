package llm

import "errors"

var (
	ErrConversationNotFound = errors.New("conversation not found")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrRequestNotFound      = errors.New("access request not found")
	ErrNotPatient           = errors.New("only patients can request access")
	ErrNotDoctor            = errors.New("only doctors can respond to access requests")
	ErrNotYourConversation  = errors.New("conversation is not about you")
	ErrNotYourRequest       = errors.New("request is not for your conversations")
	ErrAlreadyResponded     = errors.New("request already responded to")
)
