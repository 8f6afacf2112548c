// Package exporter writes the consolidated record base as CSV.
//
// The layout has 20 fixed columns, every cell double-quoted, LF line endings
// and a UTF-8 BOM so spreadsheet tools open accented headers correctly:
//
//	var buf bytes.Buffer
//	err := exporter.WriteConsolidatedCSV(&buf, snapshot.Records)
//
// WriteConsolidatedFile does the same to a path, creating its directory.
package exporter
