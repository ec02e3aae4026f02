package extraction

import "github.com/Veraticus/the-spice-must-parse/internal/model"

// Rule is a named regular expression. Rules are evaluated in slice order and
// the first one that yields an acceptable value wins.
type Rule struct {
	Name  string
	Regex string
}

// DirectionRule maps a keyword pattern to a transaction direction.
type DirectionRule struct {
	Name       string
	Regex      string
	Direction  model.Direction
	Confidence float64
}

// MerchantAlias maps an uppercase fragment of a merchant string to its display name.
type MerchantAlias struct {
	Match string
	Name  string
}

// CategoryKeywords lists the keywords that vote for a category.
type CategoryKeywords struct {
	Category model.Category
	Keywords []string
}

// CategoryFallback assigns a category when keyword scoring is inconclusive
// and any of the terms appears in the message.
type CategoryFallback struct {
	Terms      []string
	Category   model.Category
	Confidence float64
}

// Rules holds the pattern and keyword tables the engine is built from.
// An Engine compiles its Rules once and never mutates them afterwards.
type Rules struct {
	Separators            []Rule
	TransactionIndicators []string
	AmountRules           []Rule
	CurrencyMarkers       []string
	DateRules             []Rule
	NumericDateLayouts    []string
	TextDateLayouts       []string
	DirectionRules        []DirectionRule
	MerchantRules         []Rule
	MerchantAliases       []MerchantAlias
	CategoryKeywords      []CategoryKeywords
	CategoryFallbacks     []CategoryFallback
	AccountRule           Rule
	ReferenceRules        []Rule
	BalanceRule           Rule
}

const amountToken = `([0-9,]+(?:\.[0-9]{2})?)`

// DefaultRules returns the built-in rule tables for bank and payment notifications.
func DefaultRules() Rules {
	return Rules{
		Separators: []Rule{
			{Name: "blank line", Regex: `\n\s*\n`},
			{Name: "dash rule", Regex: `\n-{3,}`},
			{Name: "equals rule", Regex: `\n={3,}`},
			{Name: "email subject", Regex: `Subject:`},
			{Name: "email from", Regex: `From:`},
		},
		TransactionIndicators: []string{
			"debited", "credited", "transaction", "payment", "purchase", "spent", "paid",
			"withdrawal", "deposit", "transfer", "balance", "amount", "rs.", "₹", "inr",
			"card used", "bill payment", "refund", "cashback",
		},
		AmountRules: []Rule{
			{Name: "verb then amount", Regex: `(?:debited|credited|paid|spent|received)\s+(?:rs\.?\s*|inr\s*|₹\s*)` + amountToken},
			{Name: "amount then verb", Regex: `(?:rs\.?\s*|inr\s*|₹\s*)` + amountToken + `\s+(?:has been|was|is)\s*(?:debited|credited|charged)`},
			{Name: "amount keyword", Regex: `amount\s+(?:of\s+)?(?:rs\.?\s*|inr\s*|₹\s*)?` + amountToken + `\s+(?:debited|credited|paid)`},
			{Name: "balance", Regex: `(?:balance|available)\s+(?:is\s+)?(?:rs\.?\s*|₹\s*)?` + amountToken},
			{Name: "digital payment", Regex: `(?:upi|payment|txn)\s+(?:of\s+)?(?:rs\.?\s*|₹\s*)?` + amountToken},
			{Name: "paid via wallet", Regex: amountToken + `\s+(?:paid via|sent via|received via)\s+(?:upi|phonepe|gpay)`},
			{Name: "currency prefix", Regex: `(?:rs\.?\s*|inr\s*|₹\s*)` + amountToken + `\b`},
			{Name: "currency suffix", Regex: `\b([0-9]{1,6}(?:\.[0-9]{2})?)\s*(?:rs\.?|inr|₹)\b`},
		},
		CurrencyMarkers: []string{"₹", "$", "Rs", "INR", "USD"},
		DateRules: []Rule{
			{Name: "numeric", Regex: `\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\b`},
			{Name: "month name", Regex: `\b(\d{1,2}[\s/-]+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*[\s,/-]+\d{2,4})\b`},
			{Name: "iso", Regex: `\b(\d{4}-\d{2}-\d{2})\b`},
		},
		NumericDateLayouts: []string{
			"2/1/2006", "2-1-2006", "1/2/2006", "1-2-2006",
			"2/1/06", "2-1-06", "1/2/06", "1-2-06",
			"2006-01-02",
		},
		TextDateLayouts: []string{
			"2 Jan 2006", "2 January 2006", "2 Jan 06", "2 January 06",
		},
		DirectionRules: []DirectionRule{
			{Name: "debit verbs", Regex: `debited|deducted|charged|withdrawn|spent|paid|purchase|bought`, Direction: model.DirectionDebit, Confidence: 0.8},
			{Name: "debit phrases", Regex: `payment\s+made|transaction\s+at|used\s+at`, Direction: model.DirectionDebit, Confidence: 0.8},
			{Name: "credit verbs", Regex: `credited|deposited|received|refund|cashback|salary|transfer\s+from`, Direction: model.DirectionCredit, Confidence: 0.7},
			{Name: "credit phrases", Regex: `amount\s+received|credited\s+to`, Direction: model.DirectionCredit, Confidence: 0.7},
		},
		MerchantRules: []Rule{
			{Name: "at", Regex: `at\s+([A-Z][A-Z0-9\s&.-]+?)(?:\s+on|\s+for|\s+ref|\.|$)`},
			{Name: "purchase at", Regex: `(?:purchase|payment|transaction)\s+at\s+([A-Z][A-Z0-9\s&.-]+?)(?:\s+on|\s+for|\.|$)`},
			{Name: "used at", Regex: `used\s+at\s+([A-Z][A-Z0-9\s&.-]+?)(?:\s+on|\s+for|\.|$)`},
			{Name: "from", Regex: `from\s+([A-Z][A-Z0-9\s&.-]+?)(?:\s+to|\s+on|\.|$)`},
		},
		MerchantAliases: []MerchantAlias{
			{Match: "AMAZON", Name: "Amazon"},
			{Match: "WALMART", Name: "Walmart"},
			{Match: "STARBUCKS", Name: "Starbucks"},
			{Match: "MCDONALD", Name: "McDonald's"},
			{Match: "NETFLIX", Name: "Netflix"},
			{Match: "SPOTIFY", Name: "Spotify"},
			{Match: "UBER", Name: "Uber"},
			{Match: "LYFT", Name: "Lyft"},
		},
		CategoryKeywords: []CategoryKeywords{
			{Category: model.CategoryGroceries, Keywords: []string{
				"grocery", "supermarket", "walmart", "target", "costco", "food mart", "fresh",
				"big bazaar", "dmart", "reliance fresh", "more", "spencer", "easyday", "nilgiris",
				"metro cash", "food bazaar", "kirana", "provisions", "vegetables", "fruits",
			}},
			{Category: model.CategoryUtilities, Keywords: []string{
				"electric", "electricity", "water", "gas", "internet", "phone", "utility", "telecom",
				"airtel", "jio", "vodafone", "bsnl", "idea", "tata sky", "dish tv", "adani", "bescom",
				"kseb", "mseb", "bill payment", "recharge", "postpaid", "prepaid",
			}},
			{Category: model.CategoryTransportation, Keywords: []string{
				"fuel", "petrol", "diesel", "gas station", "uber", "ola", "taxi", "auto",
				"metro", "parking", "toll", "cab", "bhp petro", "ioc", "hp petrol", "shell",
				"bus", "train", "flight", "ticket", "booking", "irctc", "makemytrip", "goibibo",
			}},
			{Category: model.CategoryEntertainment, Keywords: []string{
				"netflix", "spotify", "amazon prime", "hotstar", "zee5", "sony liv", "voot",
				"movie", "cinema", "pvr", "inox", "bookmyshow", "gaming", "game", "entertainment",
			}},
			{Category: model.CategoryHealthcare, Keywords: []string{
				"pharmacy", "hospital", "medical", "doctor", "apollo", "1mg", "netmeds", "pharmeasy",
				"medplus", "clinic", "health", "medicine", "prescription",
			}},
			{Category: model.CategoryDining, Keywords: []string{
				"restaurant", "cafe", "food", "starbucks", "mcdonald", "kfc", "pizza hut", "dominos",
				"pizza", "delivery", "zomato", "swiggy", "uber eats", "foodpanda", "dining", "hotel",
				"dhaba", "tiffin", "meal", "lunch", "dinner", "breakfast",
			}},
			{Category: model.CategoryShopping, Keywords: []string{
				"amazon", "flipkart", "myntra", "ajio", "nykaa", "mall", "store", "clothing", "electronics",
				"fashion", "shopping", "retail", "brand factory", "lifestyle", "max", "westside",
				"shoppers stop", "online shopping", "e-commerce",
			}},
			{Category: model.CategoryBills, Keywords: []string{
				"credit card", "loan", "insurance", "emi", "payment", "hdfc", "icici", "sbi", "axis",
				"kotak", "citi", "standard chartered", "lic", "bajaj", "tata aig",
			}},
			{Category: model.CategoryEducation, Keywords: []string{
				"school", "college", "university", "fees", "tuition", "course", "training", "book",
				"education", "study", "exam",
			}},
			{Category: model.CategoryOther, Keywords: []string{
				"atm", "cash withdrawal", "transfer", "misc", "miscellaneous",
			}},
		},
		CategoryFallbacks: []CategoryFallback{
			{Terms: []string{"atm", "cash withdrawal", "pos withdrawal"}, Category: model.CategoryOther, Confidence: 0.8},
			{Terms: []string{"upi", "transfer", "neft", "imps"}, Category: model.CategoryOther, Confidence: 0.6},
		},
		AccountRule: Rule{Name: "card or account", Regex: `(?:card|account).*?(\d{4})`},
		ReferenceRules: []Rule{
			{Name: "reference", Regex: `ref(?:erence)?[\s:]+([A-Z0-9]+)`},
			{Name: "txn", Regex: `txn[\s:]+([A-Z0-9]+)`},
			{Name: "transaction", Regex: `transaction[\s:]+([A-Z0-9]+)`},
		},
		BalanceRule: Rule{Name: "balance", Regex: `(?:balance|bal)[\s:]*(?:Rs\.?\s*|₹\s*)?` + amountToken},
	}
}
