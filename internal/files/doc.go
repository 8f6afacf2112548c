// Package files manages the uploads staging directory.
//
// Staging writes each incoming spreadsheet to a hidden temporary file and
// renames it into place only once fully written, so a reader never opens a
// partial workbook. Leftovers from interrupted writes are removed by
// CleanTemp at startup.
//
// Example usage:
//
//	staging, err := files.NewStaging("/data/uploads", logger)
//	path, err := staging.Write("gestora", ".xlsx", body, 50<<20)
//	if errors.Is(err, files.ErrTooLarge) {
//	    // reject the upload
//	}
package files
