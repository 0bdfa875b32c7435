// Package services defines the business logic for the chat pipeline, the
// question publish gate, and session maintenance. This file centralizes
// service-level error values so that they can be consistently returned by
// service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer.
package services

import "errors"

// Chat errors.
var (
	// ErrRateLimited is returned when the admission controller rejects the
	// client. It is the only chat failure surfaced with a specific message.
	ErrRateLimited = errors.New("too many requests")

	// ErrInternalAI covers every failure after admission: prompt build,
	// provider infrastructure, cache write and session persistence. Detail is
	// logged, never returned.
	ErrInternalAI = errors.New("internal AI error")

	// ErrEmptyQuestion is returned for a blank chat question.
	ErrEmptyQuestion = errors.New("question is empty")

	// ErrUnsupportedLang is returned when lang is not "es" or "en".
	ErrUnsupportedLang = errors.New("lang must be es or en")

	// ErrUnsupportedContext is returned for an unknown context tag.
	ErrUnsupportedContext = errors.New("unsupported context")
)

// Question errors.
var (
	// ErrInvalidQuestion is returned when publish input is missing, not text,
	// empty after normalization, or fails question construction.
	ErrInvalidQuestion = errors.New("invalid question")

	// ErrQuestionNotFound indicates that the requested question does not exist.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrCannotPublish is returned when a stored question cannot be promoted
	// to published, e.g. because it has the wrong number of options.
	ErrCannotPublish = errors.New("question cannot be published")
)
