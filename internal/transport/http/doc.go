// Package http implements HTTP request handlers for the report server.
// It provides a thin layer between HTTP transport and business logic,
// keeping handlers focused solely on HTTP concerns.
//
// # Architecture Principles
//
// Handlers in this package follow these principles:
//
//	1. Thin handlers - minimal logic, delegate to services
//	2. HTTP-only concerns - request parsing, response formatting
//	3. Error transformation - convert service errors to HTTP responses
//	4. No business logic - all logic belongs in the service layer
//
// # Request Flow
//
// A typical request flows through these layers:
//
//	HTTP Request → Chi Router → Middleware → Handler → Service → Artifacts on disk
//	                                              ↓
//	HTTP Response ← Handler ← Service Response ←─┘
//
// # Error Handling
//
// All errors follow RFC 7807 Problem Details specification:
//
//	{
//	    "type": "/errors/dataset/not-found",
//	    "title": "Not Found",
//	    "status": 404,
//	    "detail": "Cleaned dataset not found; run the processor first",
//	    "instance": "/api/summary"
//	}
//
// Handlers match service sentinel errors with errors.Is and map them to
// API error codes; everything else falls through to the shared
// ErrorHandler as an internal error.
//
// # Testing
//
// Handlers are tested using httptest:
//
//	- Mock service dependencies
//	- Test various HTTP scenarios
//	- Verify error responses
package http
