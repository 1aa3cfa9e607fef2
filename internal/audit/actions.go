// Package audit records the append-only trail of state-changing actions.
//
// Each entry carries a chain token:
//
//	token_n = hex(sha256(token_{n-1} || content_n))
//
// where content is the canonical JSON of action, user, timestamp and detail,
// and the first entry chains from the empty string. Verify walks the stored
// trail and reports the first entry whose token does not match.
//
// Writers normally go through a Dispatcher, which queues entries and writes
// them from a background goroutine so a slow or failing audit write never
// blocks or fails the business operation that triggered it.
package audit

// Action tags an audit entry.
type Action string

const (
	ActionLogin     Action = "LOGIN"
	ActionLoginFail Action = "LOGIN_FAIL"
	ActionLogout    Action = "LOGOUT"

	ActionClientAdd     Action = "CLIENT_ADD"
	ActionClientAddFail Action = "CLIENT_ADD_FAIL"

	ActionInvoiceCreate     Action = "INVOICE_CREATE"
	ActionInvoiceCreateFail Action = "INVOICE_CREATE_FAIL"
	ActionInvoiceStatus     Action = "INVOICE_STATUS"

	ActionSettingsUpdate     Action = "SETTINGS_UPDATE"
	ActionSettingsUpdateFail Action = "SETTINGS_UPDATE_FAIL"

	ActionBackupInit    Action = "BACKUP_INIT"
	ActionBackupSuccess Action = "BACKUP_SUCCESS"
	ActionBackupFail    Action = "BACKUP_FAIL"

	ActionRestoreInit    Action = "RESTORE_INIT"
	ActionRestoreSuccess Action = "RESTORE_SUCCESS"
	ActionRestoreFail    Action = "RESTORE_FAIL"

	ActionExport Action = "EXPORT"
)
