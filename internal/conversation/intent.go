package conversation

import "strings"

// Reply keys understood by the canned catalog.
const (
	KeyGreeting      = "greeting"
	KeyAskPhone      = "ask_phone"
	KeyRepromptName  = "reprompt_name"
	KeyRepromptPhone = "reprompt_phone"
	KeyConfirm       = "confirm"
	KeyConfirmSoft   = "confirm_soft"

	KeyServices  = "services"
	KeyPricing   = "pricing"
	KeyPortfolio = "portfolio"
	KeyWhatsapp  = "whatsapp"
	KeyCall      = "call"
	KeyEmail     = "email"
	KeyDefault   = "default"
)

type intentGroup struct {
	key      string
	keywords []string
}

// intentGroups is ordered; the first group with a matching keyword wins.
// Order is part of the observed contract and must not be reshuffled.
var intentGroups = []intentGroup{
	{KeyServices, []string{"service"}},
	{KeyPricing, []string{"package", "pricing", "cost"}},
	{KeyPortfolio, []string{"portfolio", "work", "results"}},
	{KeyWhatsapp, []string{"whatsapp"}},
	{KeyCall, []string{"call", "phone"}},
	{KeyEmail, []string{"email"}},
}

// RouteIntent maps free-form post-capture text to a canned reply key by
// case-insensitive substring match.
func RouteIntent(text string) string {
	lowered := strings.ToLower(text)
	for _, group := range intentGroups {
		for _, kw := range group.keywords {
			if strings.Contains(lowered, kw) {
				return group.key
			}
		}
	}
	return KeyDefault
}
