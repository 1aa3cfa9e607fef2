package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/afactura/internal/models"
	"github.com/dmitrijs2005/afactura/internal/services"
)

func (a *App) Clients(ctx context.Context, term string) error {
	var (
		list []models.Client
		err  error
	)
	if term == "" {
		list, err = a.clientService.List(ctx)
	} else {
		list, err = a.clientService.Search(ctx, term)
	}
	if err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No clients found.")
		return nil
	}
	printClients(a, list)
	return nil
}

func printClients(a *App, list []models.Client) {
	w := newTable(a.out)
	fmt.Fprintln(w, "#\tID\tNAME\tNIF\tADDRESS")
	for i, c := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", i+1, c.ID, c.Name, c.NIF, c.Address)
	}
	w.Flush()
}

func (a *App) AddClient(ctx context.Context) error {
	var in services.ClientInput

	fields := []struct {
		prompt string
		dst    *string
	}{
		{"Name", &in.Name},
		{"NIF", &in.NIF},
		{"Email (optional)", &in.Email},
		{"Phone (optional)", &in.Phone},
		{"Address (optional)", &in.Address},
	}
	for _, f := range fields {
		v, err := a.ask(f.prompt)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	c, err := a.clientService.Add(ctx, a.session, in)
	if err != nil {
		return err
	}
	a.success("Client %s added (id %s).", c.Name, c.ID)
	return nil
}
