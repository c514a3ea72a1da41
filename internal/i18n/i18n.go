// Package i18n holds the static translation dictionary used for localized
// transactional mail and user-facing API messages. The dictionary is the
// source of truth for product copy; lookups fall back to the default
// language and, as a last resort, to the key itself.
package i18n

import "golang.org/x/text/language"

// Language is a supported UI language tag.
type Language string

const (
	EN Language = "en"
	FR Language = "fr"

	Default = EN
)

var supported = []language.Tag{
	language.English, // en, the fallback
	language.French,  // fr
}

var matcher = language.NewMatcher(supported)

// Parse negotiates a Language from a raw tag or Accept-Language value.
// Unknown or empty input resolves to the default language.
func Parse(raw string) Language {
	if raw == "" {
		return Default
	}
	tag, _ := language.MatchStrings(matcher, raw)
	base, _ := tag.Base()
	if base.String() == "fr" {
		return FR
	}
	return EN
}

// Valid reports whether lang is a supported language value.
func Valid(lang Language) bool {
	return lang == EN || lang == FR
}

// T looks up the localized string for key. Missing keys fall back to the
// default language, then to the key itself.
func T(lang Language, key string) string {
	if s, ok := translations[lang][key]; ok {
		return s
	}
	if s, ok := translations[Default][key]; ok {
		return s
	}
	return key
}

var translations = map[Language]map[string]string{
	EN: {
		"success_title":       "You're on the list!",
		"success_msg_default": "We'll notify you as soon as we launch.",
		"msg_custom_success":  "We'll notify you when Peepeep is ready for your",
		"msg_duplicate":       "You are already on the list.",
		"msg_vehicle_details": "Please select all vehicle details.",
		"thank_you_title":     "Thank you for reaching out!",
		"thank_you_msg":       "We have received your message. Our team will get back to you at the email provided shortly.",
		"success_pro_title":   "Application Received",
		"success_pro_desc":    "Our team is reviewing your details. You will receive an email shortly.",
		"header_sub":          "You are on the list!",
		"label_position":      "Current Position",
		"desc_text":           "We are rolling out access in batches to ensure the best experience for your vehicle data.",
		"ref_title":           "Want to skip the line?",
		"ref_sub":             "Get early access for every friend who joins.",
		"greeting_default":    "Hang tight.",
		"greeting_custom":     "Hang tight, {name}.",
		"vehicle_default":     "Your Vehicle",
		"share_text":          "I just joined the waitlist for Peepeep - Automated Car Care. Skip the line with my link:",
		"share_subject":       "Check out Peepeep",
		"mail_verify_subject": "Verify your Peepeep provider account",
		"mail_verify_title":   "Confirm your email",
		"mail_verify_body":    "Click the link below to verify your email and activate your provider profile.",
		"mail_verify_button":  "Verify Email",
		"mail_contact_subject": "We received your message",
		"mail_welcome_subject": "Welcome to the Peepeep waitlist",
		"mail_welcome_body":    "You are on the list. Track your position and skip the line by sharing your referral link.",
		"mail_welcome_button":  "View My Status",
	},
	FR: {
		"success_title":       "Vous êtes sur la liste !",
		"success_msg_default": "Nous vous informerons dès le lancement.",
		"msg_custom_success":  "Nous vous préviendrons quand Peepeep sera prêt pour votre",
		"msg_duplicate":       "Vous êtes déjà sur la liste.",
		"msg_vehicle_details": "Veuillez sélectionner tous les détails du véhicule.",
		"thank_you_title":     "Merci de nous avoir contactés !",
		"thank_you_msg":       "Nous avons bien reçu votre message. Notre équipe vous répondra sous peu à l'adresse indiquée.",
		"success_pro_title":   "Candidature Reçue",
		"success_pro_desc":    "Notre équipe examine vos détails. Vous recevrez un courriel sous peu.",
		"header_sub":          "Vous êtes sur la liste !",
		"label_position":      "Position Actuelle",
		"desc_text":           "Nous ouvrons l'accès par lots pour garantir la meilleure expérience pour vos données véhicule.",
		"ref_title":           "Couper la file ?",
		"ref_sub":             "Obtenez un accès anticipé pour chaque ami parrainé.",
		"greeting_default":    "Restez à l'écoute.",
		"greeting_custom":     "Restez à l'écoute, {name}.",
		"vehicle_default":     "Votre Véhicule",
		"share_text":          "Je viens de rejoindre la liste d'attente Peepeep. Coupe la file avec mon lien :",
		"share_subject":       "Découvrez Peepeep",
		"mail_verify_subject": "Vérifiez votre compte prestataire Peepeep",
		"mail_verify_title":   "Confirmez votre courriel",
		"mail_verify_body":    "Cliquez sur le lien ci-dessous pour vérifier votre courriel et activer votre profil prestataire.",
		"mail_verify_button":  "Vérifier le courriel",
		"mail_contact_subject": "Nous avons bien reçu votre message",
		"mail_welcome_subject": "Bienvenue sur la liste d'attente Peepeep",
		"mail_welcome_body":    "Vous êtes sur la liste. Suivez votre position et coupez la file en partageant votre lien de parrainage.",
		"mail_welcome_button":  "Voir mon statut",
	},
}
