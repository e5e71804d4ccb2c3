package main

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/DEFRA/fes-frontend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func ccPage(page string) string {
	return "/create-catch-certificate/" + ccDocument + "/" + page
}

func TestProductsAreListed(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Get("/v1/species/" + ccDocument).
		Reply(200).
		JSON([]models.Product{{ID: "p1", Species: "Atlantic cod", State: "FRE", Presentation: "WHL", CommodityCode: "03025110"}})

	serveRequest(asJSON(getPage(ccPage("what-are-you-exporting"))))

	assert.Equal(t, http.StatusOK, resp.Code)
	v := decodeView(t)
	require.Len(t, v.Items, 1)
	assert.Equal(t, "p1", v.Items[0].ID)
	assert.Equal(t, []string{"Atlantic cod", "FRE", "WHL", "03025110"}, v.Items[0].Cells)
}

func TestAddProductLooksUpSpeciesAndCommodityCode(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON([]models.Product{})
	gock.New(orchestrationURL).
		Get("/v1/reference-data/species").
		MatchParam("searchTerm", "cod").
		Reply(200).
		JSON([]models.Species{
			{FAOCode: "COD", FAOName: "Atlantic cod"},
			{FAOCode: "PCO", FAOName: "Pacific cod"},
		})
	gock.New(orchestrationURL).
		Get("/v1/reference-data/commodity-codes").
		MatchParam("speciesCode", "COD").
		MatchParam("state", "FRE").
		MatchParam("presentation", "WHL").
		Reply(200).
		JSON([]models.Commodity{{Code: "03025110", Description: "Fresh or chilled cod"}})
	gock.New(orchestrationURL).
		Post("/v1/species/" + ccDocument).
		JSON(models.Product{Species: "Atlantic cod", SpeciesCode: "COD", State: "FRE", Presentation: "WHL", CommodityCode: "03025110"}).
		Reply(201)

	serveRequest(postForm(ccPage("what-are-you-exporting"), url.Values{
		"_action":       {"add"},
		"species":       {"cod"},
		"state":         {"FRE"},
		"presentation":  {"WHL"},
		"commodityCode": {"03025110"},
	}))

	assertRedirect(t, ccPage("what-are-you-exporting"))
	assert.True(t, gock.IsDone())
}

func TestAddProductRejectsUnknownSpecies(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON([]models.Product{})
	gock.New(orchestrationURL).
		Get("/v1/reference-data/species").
		Reply(200).
		JSON([]models.Species{
			{FAOCode: "COD", FAOName: "Atlantic cod"},
			{FAOCode: "PCO", FAOName: "Pacific cod"},
		})

	serveRequest(asJSON(postForm(ccPage("what-are-you-exporting"), url.Values{
		"_action":       {"add"},
		"species":       {"any cod"},
		"state":         {"FRE"},
		"presentation":  {"WHL"},
		"commodityCode": {"03025110"},
	})))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []string{"error.species.unknown"}, errorMessages(decodeView(t)))
}

func TestAddProductRejectsCommodityCodeNotValidForTheSpecies(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON([]models.Product{})
	gock.New(orchestrationURL).
		Get("/v1/reference-data/species").
		Reply(200).
		JSON([]models.Species{{FAOCode: "HER", FAOName: "Atlantic herring"}})
	gock.New(orchestrationURL).
		Get("/v1/reference-data/commodity-codes").
		Reply(200).
		JSON([]models.Commodity{{Code: "03024100"}})

	serveRequest(asJSON(postForm(ccPage("what-are-you-exporting"), url.Values{
		"_action":       {"add"},
		"species":       {"herring"},
		"state":         {"FRE"},
		"presentation":  {"WHL"},
		"commodityCode": {"03025110"},
	})))

	assert.Equal(t, []string{"error.commodityCode.invalid"}, errorMessages(decodeView(t)))
}

func TestAddProductValidatesTheFormFirst(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON([]models.Product{})

	serveRequest(asJSON(postForm(ccPage("what-are-you-exporting"), url.Values{"_action": {"add"}, "state": {"RAW"}})))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	messages := errorMessages(decodeView(t))
	assert.Contains(t, messages, "error.species.required")
	assert.Contains(t, messages, "error.state.oneof")
	assert.Contains(t, messages, "error.presentation.required")
	assert.True(t, gock.IsDone())
}

func TestRemoveProduct(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON([]models.Product{{ID: "p1"}})
	gock.New(orchestrationURL).Delete("/v1/species/" + ccDocument + "/p1").Reply(204)

	serveRequest(postForm(ccPage("what-are-you-exporting"), url.Values{"_action": {"remove:p1"}}))

	assertRedirect(t, ccPage("what-are-you-exporting"))
	assert.True(t, gock.IsDone())
}

func TestProductsAreRequiredToContinue(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON([]models.Product{})

	serveRequest(asJSON(postForm(ccPage("what-are-you-exporting"), url.Values{"_action": {"continue"}})))

	assert.Equal(t, []string{"error.products.required"}, errorMessages(decodeView(t)))
}

func TestConfirmProductsGoesToLandingsEntry(t *testing.T) {
	setup()
	defer gock.Off()
	products := []models.Product{{ID: "p1", Species: "Atlantic cod"}}
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON(products)
	gock.New(orchestrationURL).Put("/v1/species/" + ccDocument).BodyString(`"id":"p1"`).Reply(204)

	serveRequest(postForm(ccPage("what-are-you-exporting"), url.Values{"_action": {"continue"}}))

	assertRedirect(t, ccPage("how-are-you-adding-landings"))
	assert.True(t, gock.IsDone())
}

func TestProductsSavedAsDraftSkipValidation(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON([]models.Product{})
	gock.New(orchestrationURL).Put("/v1/species/"+ccDocument).MatchParam("draft", "true").Reply(204)

	serveRequest(postForm(ccPage("what-are-you-exporting"), url.Values{"_action": {"saveAsDraft"}}))

	assertRedirect(t, "/create-catch-certificate")
	assert.True(t, gock.IsDone())
}

func TestLandingsEntryOffersUploadWhenEnabled(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Get("/v1/landings/" + ccDocument + "/entry-option").
		Times(2).
		Reply(200).
		JSON(models.LandingsEntry{LandingsEntryOption: models.EntryManual})

	serveRequest(asJSON(getPage(ccPage("how-are-you-adding-landings"))))
	v := decodeView(t)
	require.Len(t, v.Fields, 1)
	assert.Len(t, v.Fields[0].Options, 3)
	assert.Equal(t, models.EntryManual, v.Fields[0].Value)

	toggleFeature(featureLandingsUpload, false)
	defer toggleFeature(featureLandingsUpload, true)
	serveRequest(asJSON(getPage(ccPage("how-are-you-adding-landings"))))
	assert.Len(t, decodeView(t).Fields[0].Options, 2)
}

func TestLandingsEntryChoosesTheNextPage(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Put("/v1/landings/" + ccDocument + "/entry-option").Times(2).Reply(204)

	serveRequest(postForm(ccPage("how-are-you-adding-landings"), url.Values{"landingsEntryOption": {models.EntryUpload}, "_action": {"continue"}}))
	assertRedirect(t, ccPage("upload-file"))

	serveRequest(postForm(ccPage("how-are-you-adding-landings"), url.Values{"landingsEntryOption": {models.EntryManual}, "_action": {"continue"}}))
	assertRedirect(t, ccPage("add-landings"))

	serveRequest(asJSON(postForm(ccPage("how-are-you-adding-landings"), url.Values{"_action": {"continue"}})))
	assert.Equal(t, []string{"error.landingsEntryOption.required"}, errorMessages(decodeView(t)))
}

func mockLandings(products []models.Product, landings []models.Landing) {
	gock.New(orchestrationURL).Get("/v1/species/" + ccDocument).Reply(200).JSON(products)
	gock.New(orchestrationURL).Get("/v1/landings/" + ccDocument).Reply(200).JSON(landings)
}

func TestLandingsShowTheTotalExportWeight(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings(
		[]models.Product{{ID: "p1", Species: "Atlantic cod", State: "FRE", Presentation: "WHL"}},
		[]models.Landing{
			{ID: "l1", ProductID: "p1", VesselName: "Wiron 5", PLN: "H1100", DateLanded: "2026-01-10", FAOArea: "FAO27", ExportWeight: decimal.RequireFromString("100.5")},
			{ID: "l2", ProductID: "p1", VesselName: "Wiron 6", PLN: "H2200", DateLanded: "2026-01-11", FAOArea: "FAO27", ExportWeight: decimal.RequireFromString("20.25")},
		},
	)

	serveRequest(asJSON(getPage(ccPage("add-landings"))))

	v := decodeView(t)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "Atlantic cod", v.Items[0].Cells[0])
	assert.Equal(t, "Wiron 5 (H1100)", v.Items[0].Cells[1])
	assert.Equal(t, "120.75", v.Rows[0].Value)
}

func TestAddLandingLooksUpTheVessel(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings([]models.Product{{ID: "p1"}}, nil)
	gock.New(orchestrationURL).
		Get("/v1/reference-data/vessels").
		MatchParam("searchTerm", "H1100").
		Reply(200).
		JSON([]models.Vessel{{VesselName: "Wiron 5", PLN: "H1100"}})
	gock.New(orchestrationURL).
		Post("/v1/landings/" + ccDocument).
		JSON(models.Landing{ProductID: "p1", VesselName: "Wiron 5", PLN: "H1100", DateLanded: "2026-01-10", FAOArea: "FAO27", ExportWeight: decimal.RequireFromString("100.5")}).
		Reply(201)

	serveRequest(postForm(ccPage("add-landings"), url.Values{
		"_action":      {"add"},
		"productId":    {"p1"},
		"pln":          {"h1100"},
		"dateLanded":   {"2026-01-10"},
		"faoArea":      {"FAO27"},
		"exportWeight": {"100.5"},
	}))

	assertRedirect(t, ccPage("add-landings"))
	assert.True(t, gock.IsDone())
}

func TestAddLandingRejectsUnknownVessels(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings([]models.Product{{ID: "p1"}}, nil)
	gock.New(orchestrationURL).Get("/v1/reference-data/vessels").Reply(200).JSON([]models.Vessel{})

	serveRequest(asJSON(postForm(ccPage("add-landings"), url.Values{
		"_action":      {"add"},
		"productId":    {"p1"},
		"pln":          {"H1100"},
		"dateLanded":   {"2026-01-10"},
		"faoArea":      {"FAO27"},
		"exportWeight": {"10"},
	})))

	assert.Equal(t, []string{"error.vesselName.unknown"}, errorMessages(decodeView(t)))
}

func TestAddLandingValidatesFields(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings([]models.Product{{ID: "p1"}}, nil)

	serveRequest(asJSON(postForm(ccPage("add-landings"), url.Values{
		"_action":      {"add"},
		"productId":    {"p9"},
		"pln":          {"not a pln"},
		"dateLanded":   {"2999-01-01"},
		"faoArea":      {"FAO27"},
		"exportWeight": {"-4"},
	})))

	messages := errorMessages(decodeView(t))
	assert.Contains(t, messages, "error.productId.required")
	assert.Contains(t, messages, "error.pln.plnumber")
	assert.Contains(t, messages, "error.dateLanded.pastdate")
	assert.Contains(t, messages, "error.exportWeight.weight")
}

func TestRemoveLanding(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings([]models.Product{{ID: "p1"}}, []models.Landing{{ID: "l1", ProductID: "p1"}})
	gock.New(orchestrationURL).Delete("/v1/landings/" + ccDocument + "/l1").Reply(204)

	serveRequest(postForm(ccPage("add-landings"), url.Values{"_action": {"remove"}, "landingId": {"l1"}}))

	assertRedirect(t, ccPage("add-landings"))
	assert.True(t, gock.IsDone())
}

func TestEveryProductNeedsALanding(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings([]models.Product{{ID: "p1"}, {ID: "p2"}}, []models.Landing{{ID: "l1", ProductID: "p1"}})

	serveRequest(asJSON(postForm(ccPage("add-landings"), url.Values{"_action": {"continue"}})))
	assert.Equal(t, []string{"error.landings.incomplete"}, errorMessages(decodeView(t)))

	mockLandings([]models.Product{{ID: "p1"}}, []models.Landing{{ID: "l1", ProductID: "p1"}})
	serveRequest(postForm(ccPage("add-landings"), url.Values{"_action": {"continue"}}))
	assertRedirect(t, ccPage("whose-waters-were-they-caught-in"))
}

func TestLandingsNeedAtLeastOneProduct(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings([]models.Product{}, []models.Landing{})

	serveRequest(asJSON(postForm(ccPage("add-landings"), url.Values{"_action": {"continue"}})))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []string{"error.products.required"}, errorMessages(decodeView(t)))
}

func TestRemoveWithoutAnIdIsABadRequest(t *testing.T) {
	setup()
	defer gock.Off()
	mockLandings([]models.Product{{ID: "p1"}}, []models.Landing{{ID: "l1", ProductID: "p1"}})

	serveRequest(postForm(ccPage("add-landings"), url.Values{"_action": {"remove"}, "landingId": {" "}}))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.True(t, gock.IsDone())
}

func TestOtherWatersMustBeNamed(t *testing.T) {
	setup()

	serveRequest(asJSON(postForm(ccPage("whose-waters-were-they-caught-in"), url.Values{"caughtIn": {"uk", "other"}, "_action": {"continue"}})))

	assert.Equal(t, []string{"error.otherWaters.required"}, errorMessages(decodeView(t)))
}

func TestSaveConservation(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Put("/v1/conservation/" + ccDocument).
		JSON(models.Conservation{Waters: []string{"uk", "other"}, OtherWaters: "Faroe"}).
		Reply(204)

	serveRequest(postForm(ccPage("whose-waters-were-they-caught-in"), url.Values{"caughtIn": {"uk", "other"}, "otherWaters": {"Faroe"}, "_action": {"continue"}}))

	assertRedirect(t, ccPage("what-export-destination"))
	assert.True(t, gock.IsDone())
}

type recordingArchive struct {
	mu   sync.Mutex
	keys []string
}

func (a *recordingArchive) Put(_ context.Context, key string, _ []byte, _ string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.keys = append(a.keys, key)
	return nil
}

func uploadRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("csrf", testSession.CSRFToken()))
	require.NoError(t, mw.WriteField("_action", "upload"))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest("POST", ccPage("upload-file"), &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return signedIn(req)
}

func TestUploadLandingsFile(t *testing.T) {
	setup()
	defer gock.Off()
	archived := &recordingArchive{}
	testApp.archive = archived

	file := strings.Join([]string{
		"productId,dateLanded,faoArea,vesselPln,exportWeight",
		"p1,2026-01-10,FAO27,h1100,120.5",
		"p1,not-a-date,FAO27,H1100,10",
		"",
	}, "\n")
	gock.New(orchestrationURL).
		Post("/v1/landings/" + ccDocument + "/upload/validate").
		Reply(200).
		JSON(models.UploadValidation{Rows: []models.UploadRow{{RowNumber: 1}}})

	serveRequest(uploadRequest(t, "landings.csv", file))

	assertRedirect(t, ccPage("upload-file"))
	require.Len(t, archived.keys, 1)
	assert.True(t, strings.HasPrefix(archived.keys[0], "landings/"+ccDocument+"/"))
	assert.True(t, strings.HasSuffix(archived.keys[0], "-landings.csv"))

	var rows []models.UploadRow
	ok, err := savedSession(t).GetJSON(uploadKey(ccDocument), &rows)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, rows, 2)
	assert.Equal(t, "H1100", rows[0].PLN)
	assert.True(t, rows[0].Valid())
	assert.False(t, rows[1].Valid())

	serveRequest(asJSON(getPage(ccPage("upload-file"))))
	v := decodeView(t)
	require.Len(t, v.Items, 2)
	assert.Equal(t, "Ready to save", v.Items[0].Cells[5])
	assert.True(t, strings.HasPrefix(v.Items[1].Cells[5], "Row 2: "))
	require.Len(t, v.Buttons, 2)
	assert.Equal(t, "save", v.Buttons[1].Action)

	gock.New(orchestrationURL).
		Post("/v1/landings/" + ccDocument + "/upload/save").
		Reply(204)
	serveRequest(postForm(ccPage("upload-file"), url.Values{"_action": {"save"}}))

	assertRedirect(t, ccPage("add-landings"))
	assert.True(t, gock.IsDone())
	ok, _ = savedSession(t).GetJSON(uploadKey(ccDocument), &rows)
	assert.False(t, ok)
}

func TestUploadEmptyFileIsRejected(t *testing.T) {
	setup()

	serveRequest(asJSON(uploadRequest(t, "landings.csv", "productId,dateLanded,faoArea,vesselPln,exportWeight\n")))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []string{"error.file.empty"}, errorMessages(decodeView(t)))
}

func TestSaveUploadNeedsValidRows(t *testing.T) {
	setup()

	serveRequest(asJSON(postForm(ccPage("upload-file"), url.Values{"_action": {"save"}})))

	assert.Equal(t, []string{"error.file.noValidRows"}, errorMessages(decodeView(t)))
}

func TestUploadIsFeatureFlagged(t *testing.T) {
	setup()
	toggleFeature(featureLandingsUpload, false)
	defer toggleFeature(featureLandingsUpload, true)

	serveRequest(getPage(ccPage("upload-file")))

	assertRedirect(t, ccPage("add-landings"))
}
