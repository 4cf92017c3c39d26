// Copyright 2021 The aspi Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package status

import "strconv"

// A Code is an HTTP status code from the closed set known to this
// package. Values outside the set may still be converted to Code, but
// Known reports false for them and their label is Unknown.
type Code int

// Unknown is the label of any status code not present in the table.
const Unknown = "UNKNOWN"

const (
	Continue           Code = 100
	SwitchingProtocols Code = 101
	Processing         Code = 102
	EarlyHints         Code = 103

	OK                   Code = 200
	Created              Code = 201
	Accepted             Code = 202
	NonAuthoritativeInfo Code = 203
	NoContent            Code = 204
	ResetContent         Code = 205
	PartialContent       Code = 206
	MultiStatus          Code = 207
	AlreadyReported      Code = 208
	IMUsed               Code = 226

	MultipleChoices   Code = 300
	MovedPermanently  Code = 301
	Found             Code = 302
	SeeOther          Code = 303
	NotModified       Code = 304
	UseProxy          Code = 305
	TemporaryRedirect Code = 307
	PermanentRedirect Code = 308

	BadRequest                   Code = 400
	Unauthorized                 Code = 401
	PaymentRequired              Code = 402
	Forbidden                    Code = 403
	NotFound                     Code = 404
	MethodNotAllowed             Code = 405
	NotAcceptable                Code = 406
	ProxyAuthRequired            Code = 407
	RequestTimeout               Code = 408
	Conflict                     Code = 409
	Gone                         Code = 410
	LengthRequired               Code = 411
	PreconditionFailed           Code = 412
	RequestEntityTooLarge        Code = 413
	RequestURITooLong            Code = 414
	UnsupportedMediaType         Code = 415
	RequestedRangeNotSatisfiable Code = 416
	ExpectationFailed            Code = 417
	Teapot                       Code = 418
	MisdirectedRequest           Code = 421
	UnprocessableEntity          Code = 422
	Locked                       Code = 423
	FailedDependency             Code = 424
	TooEarly                     Code = 425
	UpgradeRequired              Code = 426
	PreconditionRequired         Code = 428
	TooManyRequests              Code = 429
	RequestHeaderFieldsTooLarge  Code = 431
	UnavailableForLegalReasons   Code = 451

	InternalServerError           Code = 500
	NotImplemented                Code = 501
	BadGateway                    Code = 502
	ServiceUnavailable            Code = 503
	GatewayTimeout                Code = 504
	HTTPVersionNotSupported       Code = 505
	VariantAlsoNegotiates         Code = 506
	InsufficientStorage           Code = 507
	LoopDetected                  Code = 508
	NotExtended                   Code = 510
	NetworkAuthenticationRequired Code = 511
)

var labels = map[Code]string{
	Continue:           "CONTINUE",
	SwitchingProtocols: "SWITCHING_PROTOCOLS",
	Processing:         "PROCESSING",
	EarlyHints:         "EARLY_HINTS",

	OK:                   "OK",
	Created:              "CREATED",
	Accepted:             "ACCEPTED",
	NonAuthoritativeInfo: "NON_AUTHORITATIVE_INFORMATION",
	NoContent:            "NO_CONTENT",
	ResetContent:         "RESET_CONTENT",
	PartialContent:       "PARTIAL_CONTENT",
	MultiStatus:          "MULTI_STATUS",
	AlreadyReported:      "ALREADY_REPORTED",
	IMUsed:               "IM_USED",

	MultipleChoices:   "MULTIPLE_CHOICES",
	MovedPermanently:  "MOVED_PERMANENTLY",
	Found:             "FOUND",
	SeeOther:          "SEE_OTHER",
	NotModified:       "NOT_MODIFIED",
	UseProxy:          "USE_PROXY",
	TemporaryRedirect: "TEMPORARY_REDIRECT",
	PermanentRedirect: "PERMANENT_REDIRECT",

	BadRequest:                   "BAD_REQUEST",
	Unauthorized:                 "UNAUTHORIZED",
	PaymentRequired:              "PAYMENT_REQUIRED",
	Forbidden:                    "FORBIDDEN",
	NotFound:                     "NOT_FOUND",
	MethodNotAllowed:             "METHOD_NOT_ALLOWED",
	NotAcceptable:                "NOT_ACCEPTABLE",
	ProxyAuthRequired:            "PROXY_AUTHENTICATION_REQUIRED",
	RequestTimeout:               "REQUEST_TIMEOUT",
	Conflict:                     "CONFLICT",
	Gone:                         "GONE",
	LengthRequired:               "LENGTH_REQUIRED",
	PreconditionFailed:           "PRECONDITION_FAILED",
	RequestEntityTooLarge:        "PAYLOAD_TOO_LARGE",
	RequestURITooLong:            "URI_TOO_LONG",
	UnsupportedMediaType:         "UNSUPPORTED_MEDIA_TYPE",
	RequestedRangeNotSatisfiable: "RANGE_NOT_SATISFIABLE",
	ExpectationFailed:            "EXPECTATION_FAILED",
	Teapot:                       "IM_A_TEAPOT",
	MisdirectedRequest:           "MISDIRECTED_REQUEST",
	UnprocessableEntity:          "UNPROCESSABLE_ENTITY",
	Locked:                       "LOCKED",
	FailedDependency:             "FAILED_DEPENDENCY",
	TooEarly:                     "TOO_EARLY",
	UpgradeRequired:              "UPGRADE_REQUIRED",
	PreconditionRequired:         "PRECONDITION_REQUIRED",
	TooManyRequests:              "TOO_MANY_REQUESTS",
	RequestHeaderFieldsTooLarge:  "REQUEST_HEADER_FIELDS_TOO_LARGE",
	UnavailableForLegalReasons:   "UNAVAILABLE_FOR_LEGAL_REASONS",

	InternalServerError:           "INTERNAL_SERVER_ERROR",
	NotImplemented:                "NOT_IMPLEMENTED",
	BadGateway:                    "BAD_GATEWAY",
	ServiceUnavailable:            "SERVICE_UNAVAILABLE",
	GatewayTimeout:                "GATEWAY_TIMEOUT",
	HTTPVersionNotSupported:       "HTTP_VERSION_NOT_SUPPORTED",
	VariantAlsoNegotiates:         "VARIANT_ALSO_NEGOTIATES",
	InsufficientStorage:           "INSUFFICIENT_STORAGE",
	LoopDetected:                  "LOOP_DETECTED",
	NotExtended:                   "NOT_EXTENDED",
	NetworkAuthenticationRequired: "NETWORK_AUTHENTICATION_REQUIRED",
}

var codes = func() map[string]Code {
	m := make(map[string]Code, len(labels))
	for c, l := range labels {
		m[l] = c
	}
	return m
}()

// Label returns the canonical label for the numeric status code, or
// Unknown if the code is not in the table.
func Label(code int) string {
	return Code(code).Label()
}

// Parse returns the status code for a canonical label. The second
// return value is false if the label is not in the table.
func Parse(label string) (Code, bool) {
	c, ok := codes[label]
	return c, ok
}

// Label returns the canonical label of c, or Unknown.
func (c Code) Label() string {
	if l, ok := labels[c]; ok {
		return l
	}
	return Unknown
}

// Known reports whether c is in the table.
func (c Code) Known() bool {
	_, ok := labels[c]
	return ok
}

// OK reports whether c is a 2XX code.
func (c Code) OK() bool {
	return Successful(int(c))
}

// String returns the code and its label, for example "404 NOT_FOUND".
func (c Code) String() string {
	return strconv.Itoa(int(c)) + " " + c.Label()
}

// Successful reports whether code is in the range [200, 300).
func Successful(code int) bool {
	return code >= 200 && code < 300
}
