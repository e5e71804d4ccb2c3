package main

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/DEFRA/fes-frontend/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func psPage(page string) string {
	return "/create-processing-statement/" + psDocument + "/" + page
}

func TestSaveConsignmentKeepsTheRestOfTheStatement(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Get("/v1/processing-statement/" + psDocument).
		Reply(200).
		JSON(models.ProcessingStatement{PlantName: "Fish Co"})
	gock.New(orchestrationURL).
		Put("/v1/processing-statement/" + psDocument).
		JSON(models.ProcessingStatement{PlantName: "Fish Co", ConsignmentDescription: "Cod fillets"}).
		Reply(204)

	serveRequest(postForm(psPage("add-consignment-details"), url.Values{"consignmentDescription": {"Cod fillets"}, "_action": {"continue"}}))

	assertRedirect(t, psPage("add-catch-details"))
	assert.True(t, gock.IsDone())
}

func TestConsignmentIsRequired(t *testing.T) {
	setup()

	serveRequest(asJSON(postForm(psPage("add-consignment-details"), url.Values{"_action": {"continue"}})))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, []string{"error.consignmentDescription.required"}, errorMessages(decodeView(t)))
}

func TestAddProcessingCatch(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/processing-statement/" + psDocument).Reply(200).JSON(models.ProcessingStatement{})
	gock.New(orchestrationURL).
		Post("/v1/processing-statement/" + psDocument + "/catches").
		JSON(models.ProcessingCatch{
			Species:                      "Atlantic cod",
			CatchCertificateNumber:       "GBR-2026-CC-111111111",
			TotalWeightLanded:            decimal.RequireFromString("500"),
			ExportWeightBeforeProcessing: decimal.RequireFromString("400"),
			ExportWeightAfterProcessing:  decimal.RequireFromString("250.5"),
		}).
		Reply(201)

	serveRequest(postForm(psPage("add-catch-details"), url.Values{
		"_action":                      {"add"},
		"species":                      {"Atlantic cod"},
		"catchCertificateNumber":       {"GBR-2026-CC-111111111"},
		"totalWeightLanded":            {"500"},
		"exportWeightBeforeProcessing": {"400"},
		"exportWeightAfterProcessing":  {"250.5"},
	}))

	assertRedirect(t, psPage("add-catch-details"))
	assert.True(t, gock.IsDone())
}

func TestProcessingWeightsCannotGrow(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/processing-statement/" + psDocument).Reply(200).JSON(models.ProcessingStatement{})

	serveRequest(asJSON(postForm(psPage("add-catch-details"), url.Values{
		"_action":                      {"add"},
		"species":                      {"Atlantic cod"},
		"catchCertificateNumber":       {"GBR-2026-CC-111111111"},
		"totalWeightLanded":            {"100"},
		"exportWeightBeforeProcessing": {"150"},
		"exportWeightAfterProcessing":  {"200"},
	})))

	assert.Equal(t, []string{
		"error.exportWeightBeforeProcessing.exceedsLanded",
		"error.exportWeightAfterProcessing.exceedsBefore",
	}, errorMessages(decodeView(t)))
}

func TestCatchesAreRequiredToContinue(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).Get("/v1/processing-statement/" + psDocument).Reply(200).JSON(models.ProcessingStatement{})

	serveRequest(asJSON(postForm(psPage("add-catch-details"), url.Values{"_action": {"continue"}})))
	assert.Equal(t, []string{"error.catches.required"}, errorMessages(decodeView(t)))

	gock.New(orchestrationURL).
		Get("/v1/processing-statement/" + psDocument).
		Reply(200).
		JSON(models.ProcessingStatement{Catches: []models.ProcessingCatch{{ID: "c1"}}})
	serveRequest(postForm(psPage("add-catch-details"), url.Values{"_action": {"continue"}}))
	assertRedirect(t, psPage("add-processing-plant-details"))
}

func TestRemoveProcessingCatch(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Get("/v1/processing-statement/" + psDocument).
		Reply(200).
		JSON(models.ProcessingStatement{Catches: []models.ProcessingCatch{{ID: "c1"}}})
	gock.New(orchestrationURL).Delete("/v1/processing-statement/" + psDocument + "/catches/c1").Reply(204)

	serveRequest(postForm(psPage("add-catch-details"), url.Values{"_action": {"remove:c1"}}))

	assertRedirect(t, psPage("add-catch-details"))
	assert.True(t, gock.IsDone())
}

func TestSavePlantUsesThePendingAddress(t *testing.T) {
	setup()
	defer gock.Off()
	addr := testAddresses[0]
	require.NoError(t, plantAddress.choose(testSession, psDocument, addr))
	saveTestSession(t)

	gock.New(orchestrationURL).Get("/v1/processing-statement/" + psDocument).Reply(200).JSON(models.ProcessingStatement{})
	gock.New(orchestrationURL).
		Put("/v1/processing-statement/" + psDocument).
		JSON(models.ProcessingStatement{
			PlantApprovalNumber:             "UK 1234 EC",
			PlantName:                       "Fish Co",
			PersonResponsibleForConsignment: "Bob Loblaw",
			PlantAddress:                    &addr,
		}).
		Reply(204)

	serveRequest(postForm(psPage("add-processing-plant-details"), url.Values{
		"plantApprovalNumber":             {"UK 1234 EC"},
		"plantName":                       {"Fish Co"},
		"personResponsibleForConsignment": {"Bob Loblaw"},
		"_action":                         {"continue"},
	}))

	assertRedirect(t, psPage("add-health-certificate"))
	assert.True(t, gock.IsDone())
	assert.Nil(t, plantAddress.pending(savedSession(t), psDocument))
}

func TestPlantAddressFlowReturnsToThePlant(t *testing.T) {
	setup()

	serveRequest(postForm(psPage("add-processing-plant-details"), url.Values{"_action": {"change-address"}}))
	assertRedirect(t, psPage("what-processing-plant-address"))

	serveRequest(postForm(psPage("what-processing-plant-address"), url.Values{"_action": {"cancel"}}))
	assertRedirect(t, psPage("add-processing-plant-details"))
}

func TestHealthCertificateFormat(t *testing.T) {
	setup()
	defer gock.Off()

	serveRequest(asJSON(postForm(psPage("add-health-certificate"), url.Values{
		"healthCertificateNumber": {"12345"},
		"healthCertificateDate":   {"2026-01-05"},
		"_action":                 {"continue"},
	})))
	assert.Equal(t, []string{"error.healthCertificateNumber.healthcert"}, errorMessages(decodeView(t)))

	gock.New(orchestrationURL).Get("/v1/processing-statement/" + psDocument).Reply(200).JSON(models.ProcessingStatement{})
	gock.New(orchestrationURL).
		Put("/v1/processing-statement/" + psDocument).
		JSON(models.ProcessingStatement{HealthCertificateNumber: "20/2/123456", HealthCertificateDate: "2026-01-05"}).
		Reply(204)
	serveRequest(postForm(psPage("add-health-certificate"), url.Values{
		"healthCertificateNumber": {"20/2/123456"},
		"healthCertificateDate":   {"2026-01-05"},
		"_action":                 {"continue"},
	}))
	assertRedirect(t, psPage("what-export-destination"))
	assert.True(t, gock.IsDone())
}
