package share

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peepeep/peepeep-manager/internal/i18n"
)

func TestReferralURL(t *testing.T) {
	assert.Equal(t, "https://peepeep.com/?ref=ab12cd34", ReferralURL("https://peepeep.com", "ab12cd34"))
	assert.Equal(t, "https://peepeep.com/?ref=ab12cd34", ReferralURL("https://peepeep.com/", "ab12cd34"))
}

func TestStatusURL(t *testing.T) {
	assert.Equal(t, "https://peepeep.com/status?code=ab12cd34", StatusURL("https://peepeep.com", "ab12cd34"))
}

func TestBuild(t *testing.T) {
	refURL := "https://peepeep.com/?ref=ab12cd34"
	links := Build(refURL, i18n.EN)

	assert.True(t, strings.HasPrefix(links.WhatsApp, "https://wa.me/?text="))
	assert.True(t, strings.HasPrefix(links.Twitter, "https://twitter.com/intent/tweet?"))
	assert.True(t, strings.HasPrefix(links.Email, "mailto:?subject="))
	assert.True(t, strings.HasPrefix(links.LinkedIn, "https://www.linkedin.com/sharing/share-offsite/?url="))
	assert.True(t, strings.HasPrefix(links.Facebook, "https://www.facebook.com/sharer/sharer.php?u="))

	// the referral url survives the round trip through query escaping
	u, err := url.Parse(links.Twitter)
	require.NoError(t, err)
	assert.Equal(t, refURL, u.Query().Get("url"))
	assert.Equal(t, i18n.T(i18n.EN, "share_text"), u.Query().Get("text"))

	fr := Build(refURL, i18n.FR)
	assert.NotEqual(t, links.WhatsApp, fr.WhatsApp)
}
