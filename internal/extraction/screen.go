package extraction

import (
	"strings"

	"github.com/Veraticus/the-spice-must-parse/internal/model"
)

var (
	promotionalTerms = []string{
		"unsubscribe", "newsletter", "offer", "discount", "sale",
		"limited time", "hurry", "shop now", "buy now", "free delivery",
		"advertisement", "promotional", "marketing",
	}

	strongIndicators = []string{
		"debited", "credited", "withdrawn", "deposited", "paid", "received",
		"transaction", "payment", "purchase", "spent",
		"rs.", "rs ", "inr", "₹", "rupees",
		"account", "a/c", "acc no", "balance",
		"upi", "neft", "imps", "rtgs", "card", "atm", "pos",
		"ref no", "reference number", "txn", "merchant", "available balance",
		"bank alert", "bank notification", "transaction alert",
	}

	trustedSenders = []string{
		"hdfcbank", "sbi.co.in", "icicibank", "axisbank", "kotak",
		"indusind", "yesbank", "pnb", "bankofbaroda", "canarabank",
		"unionbank", "idbi", "idfc", "rbl", "paytm", "phonepe", "googlepay",
		"amazon.in", "flipkart", "myntra", "swiggy", "zomato", "uber", "ola",
	}
)

// Screening reasons.
const (
	ReasonPromotional   = "promotional"
	ReasonTrustedStrong = "trusted sender with transaction indicator"
	ReasonStrong        = "transaction indicator"
	ReasonTrusted       = "trusted sender"
	ReasonNoIndicator   = "no transaction indicator"
)

// ScreenResult is the outcome of screening an email.
type ScreenResult struct {
	Reason   string
	Accepted bool
}

// ScreenEmail decides whether an email is worth extracting from. Marketing
// mail is rejected unless it mentions a transaction or payment.
func ScreenEmail(subject, body, sender string) ScreenResult {
	text := strings.ToLower(subject) + " " + strings.ToLower(body)
	sender = strings.ToLower(sender)

	if containsAny(text, promotionalTerms) &&
		!strings.Contains(text, "transaction") && !strings.Contains(text, "payment") {
		return ScreenResult{Reason: ReasonPromotional}
	}

	trusted := containsAny(sender, trustedSenders)
	strong := containsAny(text, strongIndicators)

	switch {
	case trusted && strong:
		return ScreenResult{Accepted: true, Reason: ReasonTrustedStrong}
	case strong:
		return ScreenResult{Accepted: true, Reason: ReasonStrong}
	case trusted:
		return ScreenResult{Accepted: true, Reason: ReasonTrusted}
	default:
		return ScreenResult{Reason: ReasonNoIndicator}
	}
}

// ProcessEmail screens an email and extracts candidates from its body.
func (e *Engine) ProcessEmail(subject, body, sender string) ([]model.Transaction, ScreenResult) {
	result := ScreenEmail(subject, body, sender)
	if !result.Accepted {
		return nil, result
	}
	return e.ProcessText(body), result
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
