// Package i18n provides UI translations and request-scoped locale resolution.
//
// Two locales travel with each request: the UI language (which language the
// chrome is rendered in) and the article view-locale (which language article
// content is displayed in). They are independent; both default to French.
package i18n

import "strings"

const (
	// DefaultLocale is used when no preference could be resolved.
	DefaultLocale = "fr"
)

// SupportedLocales is the fixed set of content/UI locales.
var SupportedLocales = []string{"fr", "en"}

// IsSupported reports whether code belongs to the supported locale set.
func IsSupported(code string) bool {
	for _, l := range SupportedLocales {
		if l == code {
			return true
		}
	}
	return false
}

// LocaleLabel returns the display name of a locale in its own language.
func LocaleLabel(code string) string {
	switch code {
	case "fr":
		return "Français"
	case "en":
		return "English"
	}
	return code
}

// DetectLanguage picks a supported language from an Accept-Language header.
// Unknown or empty headers fall back to the default locale.
func DetectLanguage(acceptLanguage string) string {
	first := acceptLanguage
	if i := strings.IndexAny(first, ",;"); i >= 0 {
		first = first[:i]
	}
	first = strings.ToLower(strings.TrimSpace(first))
	if i := strings.Index(first, "-"); i >= 0 {
		first = first[:i]
	}
	if IsSupported(first) {
		return first
	}
	return DefaultLocale
}

var translations = map[string]map[string]string{
	"fr": {
		"required":           "Requis",
		"too_long":           "Trop long",
		"too_short":          "Trop court",
		"invalid_email":      "Courriel invalide",
		"invalid_date":       "Date invalide",
		"date_in_future":     "La date doit être antérieure à aujourd'hui",
		"email_taken":        "Ce courriel est déjà utilisé",
		"unknown_city":       "Ville inconnue",
		"invalid_language":   "Langue non supportée",
		"invalid_file_type":  "Type de fichier non autorisé (pdf, zip, doc, docx)",
		"file_too_large":     "Fichier trop volumineux (max 10 Mo)",
		"file_required":      "Un fichier est requis",
		"forbidden":          "Vous n'êtes pas autorisé à accéder à cette ressource.",
		"not_found":          "Ressource introuvable",
		"invalid_credentials": "Courriel ou mot de passe invalide",

		"article_created":  "Article créé avec succès.",
		"article_updated":  "Article mis à jour avec succès.",
		"article_deleted":  "Article supprimé avec succès.",
		"document_created": "Document téléversé avec succès.",
		"document_updated": "Document mis à jour avec succès.",
		"document_deleted": "Document supprimé avec succès.",
		"student_created":  "Étudiant créé avec succès.",
		"student_updated":  "Étudiant mis à jour avec succès.",
		"student_deleted":  "Étudiant supprimé avec succès.",
		"user_updated":     "Utilisateur mis à jour avec succès.",
		"user_deleted":     "Utilisateur supprimé avec succès.",
		"signup_done":      "Compte créé avec succès.",

		"nav_students":  "Étudiants",
		"nav_articles":  "Articles",
		"nav_documents": "Documents",
		"nav_users":     "Utilisateurs",
		"nav_login":     "Connexion",
		"nav_logout":    "Déconnexion",
		"nav_signup":    "Inscription",

		"title":        "Titre",
		"content":      "Contenu",
		"language":     "Langue",
		"name":         "Nom",
		"address":      "Adresse",
		"phone":        "Téléphone",
		"email":        "Courriel",
		"birthdate":    "Date de naissance",
		"city":         "Ville",
		"file":         "Fichier",
		"password":     "Mot de passe",
		"author":       "Auteur",
		"actions":      "Actions",
		"save":         "Enregistrer",
		"cancel":       "Annuler",
		"edit":         "Modifier",
		"delete":       "Supprimer",
		"download":     "Télécharger",
		"new":          "Nouveau",
		"search":       "Rechercher",
		"view_locale":  "Langue d'affichage",
		"fully_translated": "Traduction complète",
		"needs_translation": "Traduction à compléter",
	},
	"en": {
		"required":           "Required",
		"too_long":           "Too long",
		"too_short":          "Too short",
		"invalid_email":      "Invalid email",
		"invalid_date":       "Invalid date",
		"date_in_future":     "Date must be before today",
		"email_taken":        "This email is already in use",
		"unknown_city":       "Unknown city",
		"invalid_language":   "Unsupported language",
		"invalid_file_type":  "File type not allowed (pdf, zip, doc, docx)",
		"file_too_large":     "File too large (max 10 MB)",
		"file_required":      "A file is required",
		"forbidden":          "You are not allowed to access this resource.",
		"not_found":          "Resource not found",
		"invalid_credentials": "Invalid email or password",

		"article_created":  "Article created successfully.",
		"article_updated":  "Article updated successfully.",
		"article_deleted":  "Article deleted successfully.",
		"document_created": "Document uploaded successfully.",
		"document_updated": "Document updated successfully.",
		"document_deleted": "Document deleted successfully.",
		"student_created":  "Student created successfully.",
		"student_updated":  "Student updated successfully.",
		"student_deleted":  "Student deleted successfully.",
		"user_updated":     "User updated successfully.",
		"user_deleted":     "User deleted successfully.",
		"signup_done":      "Account created successfully.",

		"nav_students":  "Students",
		"nav_articles":  "Articles",
		"nav_documents": "Documents",
		"nav_users":     "Users",
		"nav_login":     "Login",
		"nav_logout":    "Logout",
		"nav_signup":    "Sign up",

		"title":        "Title",
		"content":      "Content",
		"language":     "Language",
		"name":         "Name",
		"address":      "Address",
		"phone":        "Phone",
		"email":        "Email",
		"birthdate":    "Birthdate",
		"city":         "City",
		"file":         "File",
		"password":     "Password",
		"author":       "Author",
		"actions":      "Actions",
		"save":         "Save",
		"cancel":       "Cancel",
		"edit":         "Edit",
		"delete":       "Delete",
		"download":     "Download",
		"new":          "New",
		"search":       "Search",
		"view_locale":  "Display language",
		"fully_translated": "Fully translated",
		"needs_translation": "Needs translation",
	},
}

// T translates code for lang. Unknown languages fall back to French;
// unknown codes fall back to the code itself so missing entries stay visible.
func T(lang, code string) string {
	if m, ok := translations[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if lang != DefaultLocale {
		if s, ok := translations[DefaultLocale][code]; ok {
			return s
		}
	}
	return code
}
