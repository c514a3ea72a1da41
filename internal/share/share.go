// Package share builds referral URLs and the social share deep links the
// status page hands out.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/peepeep/peepeep-manager/internal/i18n"
)

// ReferralURL builds the public landing URL carrying a referral code.
func ReferralURL(publicURL, code string) string {
	return fmt.Sprintf("%s/?ref=%s", strings.TrimRight(publicURL, "/"), url.QueryEscape(code))
}

// StatusURL builds the public status page URL for a referral code.
func StatusURL(publicURL, code string) string {
	return fmt.Sprintf("%s/status?code=%s", strings.TrimRight(publicURL, "/"), url.QueryEscape(code))
}

// Links are the prebuilt social share targets for one referral URL.
type Links struct {
	WhatsApp string
	Twitter  string
	Email    string
	LinkedIn string
	Facebook string
}

// Build assembles localized share links around a referral URL.
func Build(refURL string, lang i18n.Language) Links {
	text := i18n.T(lang, "share_text")
	subject := i18n.T(lang, "share_subject")
	message := text + " " + refURL

	return Links{
		WhatsApp: "https://wa.me/?text=" + url.QueryEscape(message),
		Twitter: "https://twitter.com/intent/tweet?text=" + url.QueryEscape(text) +
			"&url=" + url.QueryEscape(refURL),
		Email: "mailto:?subject=" + url.QueryEscape(subject) +
			"&body=" + url.QueryEscape(message),
		LinkedIn: "https://www.linkedin.com/sharing/share-offsite/?url=" + url.QueryEscape(refURL),
		Facebook: "https://www.facebook.com/sharer/sharer.php?u=" + url.QueryEscape(refURL),
	}
}
