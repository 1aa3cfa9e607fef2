// Package models defines the records kept by afactura: clients, invoices,
// audit log entries, the company profile and the typed settings union.
//
// JSON field names follow the backup and export formats (camelCase), so a
// snapshot written by one version can be restored by another.
package models
