package service

import "errors"

var (
	// ErrAPIKeyRequired is returned before any request when an operation
	// needs a key and the session holds none.
	ErrAPIKeyRequired = errors.New("API Key is required")

	// ErrSubmissionInProgress is returned when a flow is asked to submit
	// while its previous request is still outstanding.
	ErrSubmissionInProgress = errors.New("a request is already in progress")

	// ErrStaleResult is returned when a response arrives after the flow was
	// navigated away from, closed or reset. The response is discarded.
	ErrStaleResult = errors.New("result discarded: flow state changed")

	// ErrInvalidTransition is returned for an action the current view or
	// step does not offer.
	ErrInvalidTransition = errors.New("action not available in current state")

	// ErrNoPendingVerification is returned by Verify when no signup is
	// awaiting confirmation.
	ErrNoPendingVerification = errors.New("no signup awaiting verification")

	// ErrUnknownPlan is returned for a plan id outside the catalogue.
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrFlowFinished is returned when a terminal flow is submitted again.
	ErrFlowFinished = errors.New("flow already finished")

	// ErrKeyRejected is returned when a freshly issued key was refused by
	// the profile refresh that follows sign in.
	ErrKeyRejected = errors.New("key rejected right after sign in")

	ErrUnknownSnippetLanguage = errors.New("unknown snippet language")

	ErrVersionIsNotSpecified = errors.New("app version is not specified")
)
