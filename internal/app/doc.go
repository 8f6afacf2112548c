// Package app wires the SLA dashboard service together and owns its lifecycle.
//
// # Initialization Flow
//
// New builds the components in dependency order:
//
//  1. Resolve and create the data, uploads and logs directories
//  2. Initialize OpenTelemetry and the business metrics
//  3. Start the websocket hub
//  4. Open the sqlite snapshot repository when persistence is enabled
//  5. Create the record store, parser, status tracker and processor
//  6. Create the dashboard, upload, processing and health services
//  7. Restore the last saved snapshot into the store
//  8. Build the chi router and the HTTP server
//
// # Usage
//
//	app, err := app.NewApplication()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := app.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Graceful Shutdown
//
// Run blocks until SIGINT or SIGTERM. Stop then drains HTTP requests, waits
// for an in-flight processing run, stops the hub, closes the database and
// flushes telemetry, all within the configured shutdown timeout.
package app
