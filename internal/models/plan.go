package models

// Plan is reference data, read-only at runtime
type Plan struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Images        int      `json:"images"`
	Price         int      `json:"price"`
	OriginalPrice int      `json:"originalPrice,omitempty"`
	Popular       bool     `json:"popular,omitempty"`
	PaymentLink   string   `json:"paymentLink"`
	Features      []string `json:"features"`
}

// Plans is the static plan catalog, loaded once per process lifetime
var Plans = []Plan{
	{
		ID:          "basic",
		Name:        "Básico",
		Images:      1,
		Price:       7,
		PaymentLink: "https://pay.cakto.com.br/n2typzf_493515",
		Features: []string{
			"1 foto restaurada",
			"Entrega em 24h",
			"Qualidade profissional",
		},
	},
	{
		ID:            "popular",
		Name:          "Popular",
		Images:        2,
		Price:         10,
		OriginalPrice: 14,
		Popular:       true,
		PaymentLink:   "https://pay.cakto.com.br/grgkdny_493628",
		Features: []string{
			"2 fotos restauradas",
			"Entrega em 24h",
			"Qualidade profissional",
			"Economia de R$ 4",
		},
	},
	{
		ID:            "premium",
		Name:          "Premium",
		Images:        5,
		Price:         20,
		OriginalPrice: 35,
		PaymentLink:   "https://pay.cakto.com.br/3agd883_493630",
		Features: []string{
			"5 fotos restauradas",
			"Entrega em 24h",
			"Qualidade profissional",
			"Economia de R$ 15",
			"Melhor custo-benefício",
		},
	},
}

// PlanByID returns plan from the catalog
func PlanByID(id string) (*Plan, error) {
	for i := range Plans {
		if Plans[i].ID == id {
			return &Plans[i], nil
		}
	}
	return nil, ErrInvalidPlan
}
