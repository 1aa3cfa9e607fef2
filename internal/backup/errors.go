package backup

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/cryptox"
	"github.com/dmitrijs2005/afactura/internal/envelope"
	"github.com/dmitrijs2005/afactura/internal/snapshot"
)

// MinPasswordLength is the shortest accepted backup password, in
// characters.
const MinPasswordLength = 8

var (
	ErrPasswordTooShort = fmt.Errorf("%w: password must be at least %d characters", cryptox.ErrKeyDerivation, MinPasswordLength)
	ErrInProgress       = errors.New("a backup or restore is already in progress")
)

// UserMessage maps a backup or restore error to the text shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPasswordTooShort):
		return fmt.Sprintf("The password must be at least %d characters long.", MinPasswordLength)
	case errors.Is(err, ErrInProgress):
		return "Another backup or restore is still running."
	case errors.Is(err, envelope.ErrFormat), errors.Is(err, cryptox.ErrAuthentication):
		return "Backup unreadable or wrong password."
	case errors.Is(err, snapshot.ErrUnsupportedVersion):
		return "This backup was created by an unsupported version."
	case errors.Is(err, cryptox.ErrKeyDerivation):
		return "Invalid password."
	case common.IsStoreError(err):
		return "The operation failed. No data was changed."
	}
	return "The operation failed: " + err.Error()
}
