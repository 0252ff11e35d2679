// Package i18n provides the small translation table used by the
// templates. The app is French-first; English is available as a
// secondary language.
package i18n

import (
	"context"
	"strings"
)

type langKey struct{}

// WithLang stores the request language in the context.
func WithLang(ctx context.Context, lang string) context.Context {
	return context.WithValue(ctx, langKey{}, lang)
}

// LangFromContext retrieves the request language, defaulting to "fr".
func LangFromContext(ctx context.Context) string {
	if l, ok := ctx.Value(langKey{}).(string); ok && l != "" {
		return l
	}
	return "fr"
}

// DetectLanguage picks a supported language from an Accept-Language
// header, defaulting to French.
func DetectLanguage(acceptLanguage string) string {
	s := strings.ToLower(strings.TrimSpace(acceptLanguage))
	if strings.HasPrefix(s, "en") {
		return "en"
	}
	return "fr"
}

var translations = map[string]map[string]string{
	"fr": {
		"required":            "Requis",
		"invalid_choice":      "Valeur inconnue",
		"invalid_date":        "Date invalide",
		"invalid_amount":      "Montant invalide",
		"must_be_positive":    "Doit être positif",
		"too_long":            "Trop long",
		"type_entree":         "Entrée",
		"type_depense":        "Dépense",
		"type_vente":          "Vente",
		"forbidden":           "Accès refusé.",
		"invalid_credentials": "Identifiants invalides.",
		"email_taken":         "Email déjà utilisé.",
		"invalid_invite":      "Lien d'invitation invalide ou expiré.",
		"account_created":     "Compte créé. Connectez-vous.",
		"operation_saved":     "Opération enregistrée.",
		"operation_updated":   "Opération mise à jour.",
		"operation_deleted":   "Opération supprimée.",
		"operation_missing":   "Opération introuvable.",
		"category_added":      "Catégorie ajoutée.",
		"category_deleted":    "Catégorie supprimée.",
		"category_missing":    "Catégorie introuvable.",
		"category_duplicate":  "Nom vide ou déjà existant.",
		"invite_created":      "Lien d'invitation créé.",
		"backup_queued":       "Sauvegarde planifiée.",
		"backup_unconfigured": "Sauvegarde non configurée.",
	},
	"en": {
		"required":            "Required",
		"invalid_choice":      "Unknown value",
		"invalid_date":        "Invalid date",
		"invalid_amount":      "Invalid amount",
		"must_be_positive":    "Must be positive",
		"too_long":            "Too long",
		"type_entree":         "Income",
		"type_depense":        "Expense",
		"type_vente":          "Sale",
		"forbidden":           "Access denied.",
		"invalid_credentials": "Invalid credentials.",
		"email_taken":         "Email already in use.",
		"invalid_invite":      "Invitation link invalid or expired.",
		"account_created":     "Account created. Please sign in.",
		"operation_saved":     "Operation saved.",
		"operation_updated":   "Operation updated.",
		"operation_deleted":   "Operation deleted.",
		"operation_missing":   "Operation not found.",
		"category_added":      "Category added.",
		"category_deleted":    "Category deleted.",
		"category_missing":    "Category not found.",
		"category_duplicate":  "Empty or duplicate name.",
		"invite_created":      "Invitation link created.",
		"backup_queued":       "Backup scheduled.",
		"backup_unconfigured": "Backup is not configured.",
	},
}

// T translates a message code for a language. Unknown languages fall
// back to French; unknown codes fall back to the code itself.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := translations["fr"][code]; ok {
		return s
	}
	return code
}
