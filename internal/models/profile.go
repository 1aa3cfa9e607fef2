package models

type TaxRegime string

const (
	RegimeGeneral    TaxRegime = "Geral"
	RegimeSimplified TaxRegime = "Simplificado"
	RegimeExclusion  TaxRegime = "Exclusão"
)

func (r TaxRegime) Valid() bool {
	switch r {
	case RegimeGeneral, RegimeSimplified, RegimeExclusion:
		return true
	}
	return false
}

// CompanyProfile is the issuing company printed on every document.
type CompanyProfile struct {
	Name           string    `json:"name"`
	NIF            string    `json:"nif"`
	Address        string    `json:"address"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Regime         TaxRegime `json:"regime"`
	RetentionYears int       `json:"retentionYears,omitempty"`
}

func DefaultCompanyProfile() CompanyProfile {
	return CompanyProfile{
		Name:    "Minha Empresa, Lda",
		NIF:     "5001234567",
		Address: "Rua Rainha Ginga, Luanda, Angola",
		Phone:   "+244 923 000 000",
		Email:   "geral@minhaempresa.ao",
		Regime:  RegimeGeneral,
	}
}
