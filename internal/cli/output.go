package cli

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dmitrijs2005/afactura/internal/backup"
	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
	errColor  = color.New(color.FgRed, color.Bold)
	headColor = color.New(color.Bold)
)

var errNotLoggedIn = errors.New("not logged in")

// describe turns an error into the line shown to the user.
func describe(err error) string {
	switch {
	case errors.Is(err, common.ErrUnauthorized):
		return "Invalid username or password."
	case errors.Is(err, errNotLoggedIn):
		return "Please log in first (type 'login')."
	case errors.Is(err, common.ErrValidation):
		return err.Error()
	case errors.Is(err, common.ErrNotFound):
		return "Not found."
	}
	return backup.UserMessage(err)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(v float64) string {
	return fmt.Sprintf("%.2f %s", v, models.Currency)
}

func (a *App) success(format string, args ...any) {
	okColor.Fprintf(a.out, format+"\n", args...)
}

func (a *App) warn(format string, args ...any) {
	warnColor.Fprintf(a.out, format+"\n", args...)
}
