// Package cli implements the interactive afactura shell.
//
// The shell is a read-eval-print loop. While logged out it accepts:
//
//	help, login, exit | quit
//
// After login:
//
//	help                     show available commands
//	clients [term]           list clients, optionally filtered by name or NIF
//	addclient                add a client
//	invoices                 list invoices
//	newinvoice               create an invoice
//	status <id|doc> <status> change an invoice status
//	export <id|doc> [xml|json]
//	profile | editprofile    show or edit the company profile
//	logs [n]                 latest audit entries (default 100)
//	verify                   check the audit hash chain
//	stats                    revenue and counters
//	backup                   write an encrypted backup
//	restore <file>           replace all data with a backup
//	logout, exit | quit
//
// Passwords are read without echo and wiped after use.
package cli
