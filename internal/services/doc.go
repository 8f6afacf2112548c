// Package services holds the application services behind the HTTP API.
//
// DashboardService builds the analytical views from the current record
// snapshot. UploadService stages the logmanager and gestora workbooks and
// validates their columns. ProcessingService starts processing runs from the
// staged files and reports their status. HealthService reports the state of
// the collaborators the API depends on.
//
// Services take their dependencies in their constructors and log through an
// injected *slog.Logger tagged with their component name.
package services
