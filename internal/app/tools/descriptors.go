package tools

const (
	ToolListCards        = "list_cards"
	ToolListTransactions = "list_transactions"
	ToolGetBalance       = "get_balance"
	ToolPayCard          = "pay_card"
	ToolPayBeneficiary   = "pay_beneficiary"
)

type Parameter struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Descriptor is what the dialogue engine sees when it lists the tools.
type Descriptor struct {
	Name        string               `json:"name"`
	Description string               `json:"description"`
	Parameters  map[string]Parameter `json:"parameters"`
}

var accountParam = Parameter{
	Type:        "string",
	Description: "Account id. Defaults to the account selected earlier in the session.",
}

func Descriptors() []Descriptor {
	return []Descriptor{
		{
			Name:        ToolListCards,
			Description: "Get the list of cards linked to the given credit card account.",
			Parameters:  map[string]Parameter{"account_id": accountParam},
		},
		{
			Name:        ToolListTransactions,
			Description: "Get the transactions recorded on the given checking account.",
			Parameters:  map[string]Parameter{"account_id": accountParam},
		},
		{
			Name:        ToolGetBalance,
			Description: "Get the current balance of the given checking account.",
			Parameters:  map[string]Parameter{"account_id": accountParam},
		},
		{
			Name:        ToolPayCard,
			Description: "Schedule a payment towards one of the user's credit cards.",
			Parameters: map[string]Parameter{
				"card_id": {Type: "string", Description: "Id of the card to pay.", Required: true},
				"amount":  {Type: "number", Description: "Amount to pay, below the per-transaction limit.", Required: true},
				"source":  {Type: "string", Description: "Funding source, e.g. checking.", Required: true},
				"date":    {Type: "string", Description: "Payment date in DD-MM-YYYY, at most 30 days ahead.", Required: true},
			},
		},
		{
			Name:        ToolPayBeneficiary,
			Description: "Transfer money from a checking account to a registered beneficiary.",
			Parameters: map[string]Parameter{
				"beneficiary": {Type: "string", Description: "Name of the registered beneficiary.", Required: true},
				"amount":      {Type: "number", Description: "Amount to transfer.", Required: true},
				"account_id":  accountParam,
			},
		},
	}
}
