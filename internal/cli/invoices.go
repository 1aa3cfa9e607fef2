package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/afactura/internal/common"
	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/services"
)

func (a *App) Invoices(ctx context.Context) error {
	list, err := a.invoiceService.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No invoices yet.")
		return nil
	}

	w := newTable(a.out)
	fmt.Fprintln(w, "DOC\tDATE\tCLIENT\tTOTAL\tSTATUS\tID")
	for _, inv := range list {
		fmt.Fprintf(w, "%s %s\t%s\t%s\t%s\t%s\t%s\n",
			inv.Type, inv.DocumentNo(), inv.Date.Format("2006-01-02"), inv.ClientName, money(inv.Total), inv.Status, inv.ID)
	}
	return w.Flush()
}

// findInvoice accepts an invoice ID or a "<series>/<number>" document number.
func (a *App) findInvoice(ctx context.Context, ref string) (*models.Invoice, error) {
	inv, err := a.invoiceService.Get(ctx, ref)
	if err == nil {
		return inv, nil
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, err
	}

	list, err := a.invoiceService.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range list {
		if strings.EqualFold(list[i].DocumentNo(), ref) {
			return &list[i], nil
		}
	}
	return nil, fmt.Errorf("invoice %q: %w", ref, common.ErrNotFound)
}

func (a *App) SetStatus(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("%w: usage: status <id|series/number> <status>", common.ErrValidation)
	}
	status, err := models.ParseInvoiceStatus(strings.Join(args[1:], " "))
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrValidation, err)
	}

	inv, err := a.findInvoice(ctx, args[0])
	if err != nil {
		return err
	}
	inv, err = a.invoiceService.SetStatus(ctx, a.session, inv.ID, status)
	if err != nil {
		return err
	}
	a.success("Invoice %s is now %s.", inv.DocumentNo(), inv.Status)
	return nil
}

// pickClient resolves an ID or search term to exactly one client, asking
// the user to choose when the term matches several.
func (a *App) pickClient(ctx context.Context) (*models.Client, error) {
	term, err := a.ask("Client (name, NIF or id)")
	if err != nil {
		return nil, err
	}
	if term == "" {
		return nil, fmt.Errorf("%w: a client is required", common.ErrValidation)
	}

	all, err := a.clientService.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == term {
			return &all[i], nil
		}
	}

	found, err := a.clientService.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	switch len(found) {
	case 0:
		return nil, fmt.Errorf("%w: no client matches %q", common.ErrValidation, term)
	case 1:
		return &found[0], nil
	}

	printClients(a, found)
	choice, err := a.ask("Choose a client number")
	if err != nil {
		return nil, err
	}
	n, err := strconv.Atoi(choice)
	if err != nil || n < 1 || n > len(found) {
		return nil, fmt.Errorf("%w: invalid choice %q", common.ErrValidation, choice)
	}
	return &found[n-1], nil
}

func (a *App) readTaxRate() (models.TaxRate, string, error) {
	s, err := a.askDefault("Tax rate % (14, 7, 0)", strconv.Itoa(int(models.TaxStandard)))
	if err != nil {
		return 0, "", err
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "%"))
	rate := models.TaxRate(n)
	if err != nil || !rate.Valid() {
		return 0, "", fmt.Errorf("%w: tax rate must be 14, 7 or 0", common.ErrValidation)
	}
	if rate != models.TaxExempt {
		return rate, "", nil
	}

	for i, r := range models.ExemptionReasons {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, r)
	}
	choice, err := a.askDefault("Exemption reason", "1")
	if err != nil {
		return 0, "", err
	}
	i, err := strconv.Atoi(choice)
	if err != nil || i < 1 || i > len(models.ExemptionReasons) {
		return 0, "", fmt.Errorf("%w: invalid exemption reason %q", common.ErrValidation, choice)
	}
	return rate, models.ExemptionReasons[i-1], nil
}

func (a *App) readItems() ([]services.ItemInput, error) {
	var items []services.ItemInput
	for {
		desc, err := a.ask(fmt.Sprintf("Item %d description (empty to finish)", len(items)+1))
		if err != nil {
			return nil, err
		}
		if desc == "" {
			return items, nil
		}

		qty, err := GetNumber(a.reader, "Quantity", 1, a.out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		price, err := GetNumber(a.reader, "Unit price", 0, a.out)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrValidation, err)
		}
		rate, reason, err := a.readTaxRate()
		if err != nil {
			return nil, err
		}

		items = append(items, services.ItemInput{
			Description:     desc,
			Quantity:        qty,
			UnitPrice:       price,
			TaxRate:         rate,
			ExemptionReason: reason,
		})
	}
}

func (a *App) readPaymentMethod() (models.PaymentMethod, error) {
	for i, m := range models.PaymentMethods {
		fmt.Fprintf(a.out, "  %d) %s\n", i+1, m)
	}
	choice, err := a.askDefault("Payment method", "1")
	if err != nil {
		return "", err
	}
	i, err := strconv.Atoi(choice)
	if err != nil || i < 1 || i > len(models.PaymentMethods) {
		return "", fmt.Errorf("%w: invalid payment method %q", common.ErrValidation, choice)
	}
	return models.PaymentMethods[i-1], nil
}

func (a *App) NewInvoice(ctx context.Context) error {
	client, err := a.pickClient(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Client: %s (NIF %s)\n", client.Name, client.NIF)

	docType, err := a.askDefault("Document type (FT, RC, NC, ND)", string(models.DocInvoice))
	if err != nil {
		return err
	}

	items, err := a.readItems()
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: an invoice needs at least one item", common.ErrValidation)
	}

	method, err := a.readPaymentMethod()
	if err != nil {
		return err
	}

	issue, err := Confirm(a.reader, "Issue now? (no keeps it as a draft)", a.out)
	if err != nil {
		return err
	}
	status := models.StatusDraft
	if issue {
		status = models.StatusIssued
	}

	inv, err := a.invoiceService.Create(ctx, a.session, services.Draft{
		Type:          models.DocumentType(strings.ToUpper(docType)),
		ClientID:      client.ID,
		Items:         items,
		Status:        status,
		PaymentMethod: method,
	})
	if err != nil {
		return err
	}

	a.success("Invoice %s created: %s, total %s.", inv.DocumentNo(), inv.Status, money(inv.Total))
	return nil
}

func (a *App) Stats(ctx context.Context) error {
	st, err := a.invoiceService.Stats(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Invoices:      %d\n", st.Count)
	fmt.Fprintf(a.out, "Revenue:       %s\n", money(st.TotalRevenue))
	fmt.Fprintf(a.out, "Pending (AGT): %d\n", st.Pending)
	fmt.Fprintf(a.out, "Drafts:        %d\n", st.Drafts)
	if len(st.Daily) == 0 {
		return nil
	}

	fmt.Fprintln(a.out, headColor.Sprint("Last days"))
	w := newTable(a.out)
	for _, d := range st.Daily {
		fmt.Fprintf(w, "%s\t%s\n", d.Day, money(d.Total))
	}
	return w.Flush()
}
