package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/DEFRA/fes-frontend/auth"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func mockDashboard(journey string) {
	gock.New(orchestrationURL).Get("/v1/documents/"+journey).MatchParam("status", "DRAFT").Reply(200).JSON([]models.Document{})
	gock.New(orchestrationURL).Get("/v1/documents/"+journey).MatchParam("status", "COMPLETE").Reply(200).JSON([]models.Document{})
}

func TestPagesWithoutATokenAreForbidden(t *testing.T) {
	setup()

	serveRequest(httptest.NewRequest("GET", "/create-catch-certificate", nil))
	assertRedirect(t, "/forbidden")

	serveRequest(httptest.NewRequest("GET", "/forbidden", nil))
	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestExpiredTokensAreForbidden(t *testing.T) {
	setup()
	testToken = signToken(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute))},
		ContactID:        "contact-1",
	})

	serveRequest(getPage("/create-catch-certificate"))
	assertRedirect(t, "/forbidden")
}

func TestTokenIsReadFromTheIdentityCookie(t *testing.T) {
	setup()
	defer gock.Off()
	mockDashboard("catchCertificate")

	req := httptest.NewRequest("GET", "/create-catch-certificate", nil)
	req.AddCookie(&http.Cookie{Name: viper.GetString("auth.cookie_name"), Value: testToken})
	req.AddCookie(&http.Cookie{Name: testApp.sessions.CookieName(), Value: testSession.ID})
	serveRequest(req)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, gock.IsDone())
}

func TestTokenIsForwardedToOrchestration(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Get("/v1/documents/catchCertificate").
		MatchHeader("Authorization", "^Bearer "+testToken+"$").
		Times(2).
		Reply(200).
		JSON([]models.Document{})

	serveRequest(getPage("/create-catch-certificate"))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.True(t, gock.IsDone())
}

func TestDisabledAuthUsesTheDevelopmentIdentity(t *testing.T) {
	setup()
	defer gock.Off()
	viper.Set("auth.disabled", true)
	defer viper.Set("auth.disabled", false)
	mockDashboard("catchCertificate")

	req := httptest.NewRequest("GET", "/create-catch-certificate", nil)
	req.AddCookie(&http.Cookie{Name: testApp.sessions.CookieName(), Value: testSession.ID})
	serveRequest(req)

	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestPostsWithoutTheFormTokenAreRejected(t *testing.T) {
	setup()

	serveRequest(postForm("/create-catch-certificate", url.Values{"_action": {"create"}, "csrf": {"not-the-token"}}))

	assert.Equal(t, http.StatusForbidden, resp.Code)
}

func TestSameToken(t *testing.T) {
	assert.True(t, sameToken("abc123", "abc123"))
	assert.False(t, sameToken("abc124", "abc123"))
	assert.False(t, sameToken("abc", "abc123"))
	assert.False(t, sameToken("", ""))
}

func TestPrivacyNoticeMustBeAccepted(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/user-attributes").Reply(200).JSON(models.UserAttributes{})

	// A fresh session has not seen the notice
	fresh := session.New()
	require.NoError(t, testStore.Save(context.Background(), fresh, time.Hour))
	req := httptest.NewRequest("GET", "/create-catch-certificate/"+ccDocument+"/progress", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.AddCookie(&http.Cookie{Name: testApp.sessions.CookieName(), Value: fresh.ID})
	serveRequest(req)

	assertRedirect(t, "/privacy-notice?nextUri="+url.QueryEscape("/create-catch-certificate/"+ccDocument+"/progress"))
}

func TestPrivacyAcceptedOnAnotherDeviceIsRemembered(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/user-attributes").Reply(200).JSON(models.UserAttributes{PrivacyStatement: true})
	mockDashboard("catchCertificate")

	fresh := session.New()
	require.NoError(t, testStore.Save(context.Background(), fresh, time.Hour))
	req := httptest.NewRequest("GET", "/create-catch-certificate", nil)
	req.Header.Set("Authorization", "Bearer "+testToken)
	req.AddCookie(&http.Cookie{Name: testApp.sessions.CookieName(), Value: fresh.ID})
	serveRequest(req)

	assert.Equal(t, http.StatusOK, resp.Code)
	saved, err := testStore.Load(context.Background(), fresh.ID)
	require.NoError(t, err)
	assert.Equal(t, "accepted", saved.Get(privacyKey))
}

func TestDocumentsOfAnotherJourneyGoToTheDashboard(t *testing.T) {
	setup()

	serveRequest(getPage("/create-catch-certificate/" + psDocument + "/progress"))
	assertRedirect(t, "/create-catch-certificate")

	serveRequest(getPage("/create-catch-certificate/not-a-document/progress"))
	assertRedirect(t, "/create-catch-certificate")
}

func TestFeatureFlaggedPagesAreHidden(t *testing.T) {
	setup()
	toggleFeature(featureArrivalTransport, false)

	serveRequest(getPage("/create-storage-document/" + sdDocument + "/add-arrival-transportation-details"))

	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestOrchestrationForbiddenGoesToForbidden(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/documents/catchCertificate/" + ccDocument + "/progress").Reply(403)

	serveRequest(getPage("/create-catch-certificate/" + ccDocument + "/progress"))

	assertRedirect(t, "/forbidden")
}

func TestMissingDocumentGoesToTheDashboard(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/documents/catchCertificate/" + ccDocument + "/progress").Reply(404)

	serveRequest(getPage("/create-catch-certificate/" + ccDocument + "/progress"))

	assertRedirect(t, "/create-catch-certificate")
}

func TestOrchestrationOutageIsAServerError(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/documents/catchCertificate/" + ccDocument + "/progress").Reply(502)

	serveRequest(getPage("/create-catch-certificate/" + ccDocument + "/progress"))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
	assert.Contains(t, resp.Body.String(), "problem with the service")
}

func TestLanguageComesFromCookieThenHeader(t *testing.T) {
	setup()

	req := httptest.NewRequest("GET", "/forbidden", nil)
	req.AddCookie(&http.Cookie{Name: languageCookie, Value: "cy"})
	serveRequest(req)
	assert.Contains(t, resp.Body.String(), `lang="cy"`)

	req = httptest.NewRequest("GET", "/forbidden", nil)
	req.Header.Set("Accept-Language", "cy-GB,cy;q=0.9")
	serveRequest(req)
	assert.Contains(t, resp.Body.String(), `lang="cy"`)

	req = httptest.NewRequest("GET", "/forbidden", nil)
	req.Header.Set("Accept-Language", "fr-FR")
	serveRequest(req)
	assert.Contains(t, resp.Body.String(), `lang="en"`)
}

func TestOversizedFormsAreRejected(t *testing.T) {
	setup()
	viper.Set("upload.max_bytes", 16)
	defer viper.Set("upload.max_bytes", 10<<20)

	serveRequest(postForm("/create-catch-certificate", url.Values{"_action": {"create"}, "padding": {"0123456789012345678901234567890123456789"}}))

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
}

func TestPanicsAreRecovered(t *testing.T) {
	setup()
	router.GET("/boom", func(http.ResponseWriter, *http.Request, httprouter.Params) { panic("boom") })

	serveRequest(httptest.NewRequest("GET", "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, resp.Code)
}
