package i18n

import "net/http"

// LangCookie stores the visitor's last language choice.
const LangCookie = "pv_lang"

// Bundle resolves UI strings per language. Dictionaries are compiled in;
// this is a two-language site, not a translation platform.
type Bundle struct {
	defaultLang string
	messages    map[string]map[string]string
}

func NewBundle(defaultLang string) *Bundle {
	if _, ok := dictionaries[defaultLang]; !ok {
		defaultLang = "fr"
	}
	return &Bundle{
		defaultLang: defaultLang,
		messages:    dictionaries,
	}
}

func (b *Bundle) DefaultLang() string {
	return b.defaultLang
}

// Supported reports whether lang has a dictionary.
func (b *Bundle) Supported(lang string) bool {
	_, ok := b.messages[lang]
	return ok
}

// Resolve normalizes a requested language, falling back to the default.
func (b *Bundle) Resolve(lang string) string {
	if b.Supported(lang) {
		return lang
	}
	return b.defaultLang
}

// FromRequest picks the request language: explicit ?lang wins, then the
// language cookie, then the default.
func (b *Bundle) FromRequest(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return b.Resolve(lang)
	}
	if cookie, err := r.Cookie(LangCookie); err == nil {
		return b.Resolve(cookie.Value)
	}
	return b.defaultLang
}

// T returns the message for key in lang. Missing keys fall back to the
// default language, then to the key itself so a typo stays visible.
func (b *Bundle) T(lang, key string) string {
	lang = b.Resolve(lang)
	if msg, ok := b.messages[lang][key]; ok {
		return msg
	}
	if msg, ok := b.messages[b.defaultLang][key]; ok {
		return msg
	}
	return key
}

var dictionaries = map[string]map[string]string{
	"fr": {
		"reservation.received":   "Votre demande de réservation a bien été reçue.",
		"review.received":        "Merci pour votre avis, il sera publié après modération.",
		"error.not_found":        "La ressource demandée est introuvable.",
		"error.invalid_request":  "Les données envoyées sont invalides.",
		"error.server":           "Une erreur est survenue, veuillez réessayer.",
		"tournament.pool_stage":  "Phase de poules",
		"tournament.knockout":    "Phase finale",
		"tournament.completed":   "Tournoi terminé",
		"match.final":            "Finale",
		"match.third_place":      "Petite finale",
		"match.semifinal":        "Demi-finale",
		"match.quarterfinal":     "Quart de finale",
	},
	"en": {
		"reservation.received":   "Your reservation request has been received.",
		"review.received":        "Thank you for your review, it will appear after moderation.",
		"error.not_found":        "The requested resource could not be found.",
		"error.invalid_request":  "The submitted data is invalid.",
		"error.server":           "Something went wrong, please try again.",
		"tournament.pool_stage":  "Pool stage",
		"tournament.knockout":    "Knockout stage",
		"tournament.completed":   "Tournament finished",
		"match.final":            "Final",
		"match.third_place":      "Third-place match",
		"match.semifinal":        "Semifinal",
		"match.quarterfinal":     "Quarterfinal",
	},
}
