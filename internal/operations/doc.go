// Package operations runs the spreadsheet processing pipeline.
//
// A run turns the staged logmanager and gestora workbooks into a new record
// snapshot. It executes a fixed sequence of steps:
//
//   - prepare: checks both staged files are present (0%)
//   - parse: reads both workbooks in parallel (25%)
//   - merge: joins gestora packages onto logmanager orders (50%)
//   - sla: summarizes the SLA classification of the merged records (75%)
//
// Every transition is recorded by a StatusTracker and pushed to dashboard
// clients as processing_status and system_status messages. When the last step
// finishes the records are published to the store, optionally persisted, and
// a data_refresh message tells clients to refetch their views.
//
// Only one run may be active at a time. Starting a second run while one is in
// progress fails with errors.ErrProcessingInProgress.
package operations
