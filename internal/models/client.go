package models

import "strings"

// Client is a customer that invoices are issued to.
type Client struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	NIF     string `json:"nif"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// Matches reports whether term is a case-insensitive substring of the
// client name or a substring of the NIF. An empty term matches everything.
func (c Client) Matches(term string) bool {
	term = strings.TrimSpace(term)
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(c.Name), strings.ToLower(term)) ||
		strings.Contains(c.NIF, term)
}

// DemoClients are inserted into an empty store on first start.
func DemoClients() []Client {
	return []Client{
		{ID: "c1", Name: "Cliente Particular", NIF: "999999999", Address: "Luanda"},
		{
			ID:      "c2",
			Name:    "Empresa Exemplo SA",
			NIF:     "5401112221",
			Email:   "compras@exemplo.ao",
			Phone:   "+244 222 111 222",
			Address: "Talatona, Luanda",
		},
	}
}
