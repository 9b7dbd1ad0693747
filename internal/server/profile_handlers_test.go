package server

import (
	"net/http"
	"net/url"
	"testing"

	"mingle/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProfileUpdateAndView(t *testing.T) {
	t.Parallel()
	app, _, db := newTestServer(t)

	cookie := signup(t, app, "alice")

	resp := postFormRequest(t, app, "/profile/alice", cookie, url.Values{
		"education":   {"NTNU"},
		"employment":  {"Barista"},
		"music":       {"Jazz"},
		"movie":       {"Alien"},
		"nationality": {"Norwegian"},
		"birthday":    {"1990-05-17"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/profile/alice", resp.Header.Get("Location"))
	_ = resp.Body.Close()

	page := decodePage(t, get(t, app, "/profile/alice", cookie))
	require.Equal(t, "Profile", page["title"])
	user := page["user"].(map[string]any)
	assert.Equal(t, "NTNU", user["education"])
	assert.Equal(t, "Jazz", user["music"])
	assert.Equal(t, "1990-05-17", user["birthday"])

	var stored models.User
	require.NoError(t, db.Where("username = ?", "alice").First(&stored).Error)
	assert.Equal(t, "Barista", stored.Employment)
}

func TestProfileUpdateOverwritesWithBlanks(t *testing.T) {
	t.Parallel()
	app, _, db := newTestServer(t)

	cookie := signup(t, app, "bob")

	resp := postFormRequest(t, app, "/profile/bob", cookie, url.Values{
		"education": {"Something"},
		"music":     {"Metal"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_ = resp.Body.Close()

	// A second submission with only one field filled clears the rest.
	resp = postFormRequest(t, app, "/profile/bob", cookie, url.Values{
		"music": {"Folk"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	_ = resp.Body.Close()

	var stored models.User
	require.NoError(t, db.Where("username = ?", "bob").First(&stored).Error)
	assert.Equal(t, "Folk", stored.Music)
	assert.Empty(t, stored.Education, "omitted fields are overwritten with blanks")
}

func TestProfilePostToForeignURLUpdatesSessionUser(t *testing.T) {
	t.Parallel()
	app, _, db := newTestServer(t)

	cookie := signup(t, app, "carol")
	signup(t, app, "dave")

	resp := postFormRequest(t, app, "/profile/dave", cookie, url.Values{
		"education": {"sneaky"},
	})
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/profile/carol", resp.Header.Get("Location"))
	_ = resp.Body.Close()

	var carol, dave models.User
	require.NoError(t, db.Where("username = ?", "carol").First(&carol).Error)
	require.NoError(t, db.Where("username = ?", "dave").First(&dave).Error)
	assert.Equal(t, "sneaky", carol.Education)
	assert.Empty(t, dave.Education, "the URL user's profile is untouched")
}
