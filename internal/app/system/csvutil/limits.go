// internal/app/system/csvutil/limits.go
package csvutil

// MaxExportRows caps a single feedback export.
const MaxExportRows = 20000
