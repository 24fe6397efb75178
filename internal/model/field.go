package model

// FieldKey identifies one financial input row of the template.
// The set is closed: extraction only ever emits keys from this catalog.
type FieldKey string

const (
	FieldRevenue                FieldKey = "revenue"
	FieldGrossMarginPct         FieldKey = "grossMarginPct"
	FieldOperatingExpenses      FieldKey = "operatingExpenses"
	FieldDepreciation           FieldKey = "depreciation"
	FieldNetInterestExpense     FieldKey = "netInterestExpense"
	FieldIncomeTaxPct           FieldKey = "incomeTaxPct"
	FieldDividends              FieldKey = "dividends"
	FieldAccountsReceivableDays FieldKey = "accountsReceivableDays"
	FieldInventoryDays          FieldKey = "inventoryDays"
	FieldAccountsPayableDays    FieldKey = "accountsPayableDays"
	FieldCapex                  FieldKey = "capex"
	FieldExtraordinaryItems     FieldKey = "extraordinaryItems"
	FieldOpeningCash            FieldKey = "openingCash"
	FieldOpeningDebt            FieldKey = "openingDebt"
)

// FieldDefinition describes one catalog entry.
type FieldDefinition struct {
	Key             FieldKey `json:"key"`
	Label           string   `json:"label"`
	FirstPeriodOnly bool     `json:"firstPeriodOnly"` // only meaningful at period index 0
	Percentage      bool     `json:"percentage"`      // stored already scaled (45 means 45%)
}

// FieldCatalog lists every known field in template row order.
func FieldCatalog() []FieldDefinition {
	return []FieldDefinition{
		{Key: FieldRevenue, Label: "Receita Líquida"},
		{Key: FieldGrossMarginPct, Label: "Margem Bruta (%)", Percentage: true},
		{Key: FieldOperatingExpenses, Label: "Despesas Operacionais"},
		{Key: FieldDepreciation, Label: "Depreciação e Amortização"},
		{Key: FieldNetInterestExpense, Label: "Despesas Financeiras Líquidas"},
		{Key: FieldIncomeTaxPct, Label: "Alíquota Efetiva de Impostos (%)", Percentage: true},
		{Key: FieldDividends, Label: "Dividendos Distribuídos"},
		{Key: FieldAccountsReceivableDays, Label: "PMR - Prazo Médio de Recebimento"},
		{Key: FieldInventoryDays, Label: "PME - Prazo Médio de Estoques"},
		{Key: FieldAccountsPayableDays, Label: "PMP - Prazo Médio de Pagamento"},
		{Key: FieldCapex, Label: "Investimentos (CAPEX)"},
		{Key: FieldExtraordinaryItems, Label: "Itens Extraordinários"},
		{Key: FieldOpeningCash, Label: "Caixa Inicial", FirstPeriodOnly: true},
		{Key: FieldOpeningDebt, Label: "Dívida Bancária Inicial", FirstPeriodOnly: true},
	}
}

// LookupField returns the catalog entry for key, if the key is known.
func LookupField(key string) (FieldDefinition, bool) {
	for _, def := range FieldCatalog() {
		if string(def.Key) == key {
			return def, true
		}
	}
	return FieldDefinition{}, false
}
