// Package http implements the HTTP handlers of the dashboard API.
//
// Handlers are a thin layer over the services: they bind and validate the
// request, call one service method and render the result with go-chi/render.
// Every failure goes through errors.ErrorHandler so clients always receive an
// RFC 7807 problem document carrying success=false and a message.
//
// Routes:
//
//	GET    /api/system/status
//	GET    /api/upload/status
//	POST   /api/upload               multipart: file, fileType
//	DELETE /api/upload/{fileType}
//	POST   /api/upload/process
//	GET    /api/filters
//	GET    /api/dashboard/{view}
//	GET    /api/export/consolidated
//	GET    /api/health
package http
