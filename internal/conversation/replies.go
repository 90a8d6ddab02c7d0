package conversation

import "strings"

// Reply is one entry of the canned bot copy catalog. Text may contain a
// {name} placeholder filled from the captured lead name.
type Reply struct {
	Text        string
	Suggestions []string
}

// Catalog maps reply keys to canned bot copy. The copy itself is collaborator
// data; this default exists so the service runs standalone and can be swapped
// wholesale at construction time.
type Catalog map[string]Reply

func (c Catalog) Render(key, name string) Reply {
	reply, ok := c[key]
	if !ok {
		reply = c[KeyDefault]
	}
	reply.Text = strings.ReplaceAll(reply.Text, "{name}", name)
	return reply
}

var defaultSuggestions = []string{
	"What are your services?",
	"Show me pricing packages",
	"See your portfolio",
	"Chat on WhatsApp",
}

func DefaultCatalog() Catalog {
	return Catalog{
		KeyGreeting: {
			Text: "Hi there! 👋 I can help you grow your business online. May I know your name?",
		},
		KeyRepromptName: {
			Text: "Sorry, I didn't catch that. Could you share your full name?",
		},
		KeyAskPhone: {
			Text: "Great to meet you, {name}! Please share your 10-digit mobile number so our team can reach you.",
		},
		KeyRepromptPhone: {
			Text: "That doesn't look like a valid mobile number. Please enter a 10-digit number starting with 6-9.",
		},
		KeyConfirm: {
			Text:        "Thanks, {name}! Your details are saved and our team will call you shortly. Meanwhile, ask me anything.",
			Suggestions: defaultSuggestions,
		},
		KeyConfirmSoft: {
			Text:        "Thanks, {name}! We've noted your details and our team will get in touch soon. Meanwhile, ask me anything.",
			Suggestions: defaultSuggestions,
		},
		KeyServices: {
			Text:        "We offer SEO, performance marketing, social media management, web design and branding. Which one are you interested in?",
			Suggestions: []string{"Show me pricing packages", "See your portfolio"},
		},
		KeyPricing: {
			Text:        "Our packages start at a starter tier for small businesses and scale up to full-funnel growth plans. Our team will share a quote tailored to you on the call.",
			Suggestions: []string{"What are your services?", "Chat on WhatsApp"},
		},
		KeyPortfolio: {
			Text:        "We've helped 100+ businesses grow their traffic and leads. Our team will walk you through relevant case studies on the call.",
			Suggestions: []string{"What are your services?", "Show me pricing packages"},
		},
		KeyWhatsapp: {
			Text: "You can message us on WhatsApp any time — tap the WhatsApp button on the page and we'll pick up from there.",
		},
		KeyCall: {
			Text: "Our team will call you on the number you shared. If it's urgent, the call button on the page connects you right away.",
		},
		KeyEmail: {
			Text: "You can write to us from the contact section on the page and we'll reply within a business day.",
		},
		KeyDefault: {
			Text:        "Our team will cover that on the call. Is there anything else I can help with?",
			Suggestions: defaultSuggestions,
		},
	}
}
