package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/export"
)

func (a *App) Export(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: export <id|series/number> [xml|json]", common.ErrValidation)
	}
	var format string
	if len(args) > 1 {
		format = args[1]
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	inv, err := a.findInvoice(ctx, args[0])
	if err != nil {
		return err
	}

	data, err := export.Render(f, *inv, a.session.Profile, a.now())
	if err != nil {
		return err
	}
	path, err := export.WriteFile(a.config.ExportDir, export.FileName(*inv, f), data)
	if err != nil {
		return err
	}

	a.trail.Dispatch(ctx, audit.ActionExport,
		fmt.Sprintf("Invoice %s exported as %s", inv.DocumentNo(), strings.ToUpper(string(f))), a.session.Actor())
	a.success("Exported to %s", path)
	return nil
}
