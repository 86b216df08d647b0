package expense

// Expense is the persisted shape of one record inside the expenses slot:
// a JSON object with string id, numeric amount and an ISO (YYYY-MM-DD) date.
type Expense struct {
	ID          string  `json:"id"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
}
