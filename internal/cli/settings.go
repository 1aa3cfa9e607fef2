package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/afactura/internal/audit"
	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/services"
)

func (a *App) Profile(ctx context.Context) error {
	p, err := a.settingsService.Profile(ctx)
	if err != nil {
		return err
	}

	w := newTable(a.out)
	fmt.Fprintf(w, "Name\t%s\n", p.Name)
	fmt.Fprintf(w, "NIF\t%s\n", p.NIF)
	fmt.Fprintf(w, "Address\t%s\n", p.Address)
	fmt.Fprintf(w, "Phone\t%s\n", p.Phone)
	fmt.Fprintf(w, "Email\t%s\n", p.Email)
	fmt.Fprintf(w, "Regime\t%s\n", p.Regime)
	if p.RetentionYears > 0 {
		fmt.Fprintf(w, "Retention\t%d years\n", p.RetentionYears)
	}
	return w.Flush()
}

// EditProfile prompts for every field with the current value as default.
func (a *App) EditProfile(ctx context.Context) error {
	p, err := a.settingsService.Profile(ctx)
	if err != nil {
		return err
	}

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Company name", &p.Name},
		{"NIF", &p.NIF},
		{"Address", &p.Address},
		{"Phone", &p.Phone},
		{"Email", &p.Email},
	}
	for _, f := range fields {
		v, err := a.askDefault(f.prompt, *f.dst)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	regime, err := a.askDefault(fmt.Sprintf("Tax regime (%s, %s, %s)",
		models.RegimeGeneral, models.RegimeSimplified, models.RegimeExclusion), string(p.Regime))
	if err != nil {
		return err
	}
	p.Regime = models.TaxRegime(regime)

	years, err := a.askDefault("Document retention (years)", strconv.Itoa(p.RetentionYears))
	if err != nil {
		return err
	}
	if p.RetentionYears, err = strconv.Atoi(years); err != nil {
		return fmt.Errorf("%w: retention must be a whole number of years", common.ErrValidation)
	}

	if err := a.settingsService.SaveProfile(ctx, a.session, p); err != nil {
		return err
	}
	a.success("Company profile saved.")
	return nil
}

func (a *App) Logs(ctx context.Context, args []string) error {
	n := services.DefaultLogLimit
	if len(args) > 0 {
		v, err := strconv.Atoi(args[0])
		if err != nil || v <= 0 {
			return fmt.Errorf("%w: usage: logs [n]", common.ErrValidation)
		}
		n = v
	}

	// entries dispatched by this session should be visible
	if err := a.trail.Flush(ctx); err != nil {
		return err
	}

	logs, err := a.settingsService.RecentLogs(ctx, n)
	if err != nil {
		return err
	}
	if len(logs) == 0 {
		fmt.Fprintln(a.out, "The audit trail is empty.")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "ID\tTIME\tUSER\tACTION\tDETAIL")
	for _, l := range logs {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			l.ID, l.Timestamp.Local().Format("2006-01-02 15:04:05"), l.User, l.Action, l.Detail)
	}
	return w.Flush()
}

func (a *App) Verify(ctx context.Context) error {
	if err := a.trail.Flush(ctx); err != nil {
		return err
	}

	rep, err := a.settingsService.VerifyTrail(ctx)
	if errors.Is(err, audit.ErrChainBroken) {
		fmt.Fprintln(a.out, errColor.Sprintf("Audit trail BROKEN at entry %d (%d entries intact before it).", rep.BrokenAt, rep.Checked))
		return nil
	}
	if err != nil {
		return err
	}
	a.success("Audit trail intact: %d entries checked.", rep.Checked)
	return nil
}
