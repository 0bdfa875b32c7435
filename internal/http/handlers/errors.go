// Package handlers defines the stable, machine-readable error codes returned
// in the ErrorResponse envelope. Clients branch on Code; Message is for humans.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "too_many_requests",
//	  "message": "too many requests, please retry later"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeNotFound         = "not_found"
	ErrCodeRateLimited      = "too_many_requests"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeAnswerFailed  = "answer_failed"
	ErrCodePublishFailed = "publish_failed"
	ErrCodeListFailed    = "list_failed"
	ErrCodeCannotPublish = "cannot_publish"
)
