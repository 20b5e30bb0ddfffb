package accounts_repo

import (
	"github.com/shopspring/decimal"

	"cardbot/internal/domain"
)

// Seed describes the accounts loaded into a store at startup.
type Seed struct {
	CardGroups    map[string][]domain.Card
	Checking      map[string]decimal.Decimal
	Beneficiaries []domain.Beneficiary
}

func DefaultSeed() Seed {
	return Seed{
		CardGroups: map[string][]domain.Card{
			"CC_ACC234": {
				{ID: "1", Type: "Visa", LastFour: "5432", Balance: decimal.RequireFromString("2500.00")},
				{ID: "2", Type: "Amex", LastFour: "9876", Balance: decimal.RequireFromString("3500.00")},
			},
			"CC_ACC123": {
				{ID: "3", Type: "Visa", LastFour: "1234", Balance: decimal.RequireFromString("1500.00")},
				{ID: "4", Type: "Mastercard", LastFour: "5678", Balance: decimal.RequireFromString("2300.00")},
			},
		},
		Checking: map[string]decimal.Decimal{
			"CHECKING_ACC234": decimal.RequireFromString("3000.00"),
			"CHECKING_ACC123": decimal.RequireFromString("1500.00"),
		},
		Beneficiaries: []domain.Beneficiary{
			{ID: "BEN001", Name: "Yam Marcovitz"},
			{ID: "BEN002", Name: "Dor Zohar"},
			{ID: "BEN003", Name: "Noa Levi"},
			{ID: "BEN004", Name: "Amit Cohen"},
		},
	}
}
