package main

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/DEFRA/fes-frontend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/h2non/gock.v1"
)

func mockProcessingStatementSummary() {
	addr := testAddresses[0]
	gock.New(orchestrationURL).
		Get("/v1/user-reference/processingStatement/" + psDocument).
		Reply(200).
		JSON(models.UserReference{UserReference: "order 12"})
	gock.New(orchestrationURL).
		Get("/v1/exporter/processingStatement/" + psDocument).
		Reply(200).
		JSON(models.Exporter{ExporterFullName: "Bob Loblaw", ExporterCompanyName: "Bob Loblaw Law", Address: &addr})
	gock.New(orchestrationURL).
		Get("/v1/export-location/processingStatement/" + psDocument).
		Reply(200).
		JSON(models.ExportLocation{ExportedTo: testCountries[0]})
	gock.New(orchestrationURL).
		Get("/v1/processing-statement/" + psDocument).
		Reply(200).
		JSON(models.ProcessingStatement{
			ConsignmentDescription:  "Cod fillets",
			PlantName:               "Fish Co",
			HealthCertificateNumber: "20/2/123456",
			Catches:                 []models.ProcessingCatch{{ID: "c1"}, {ID: "c2"}},
		})
}

func TestCheckYourInformationSummarisesEverySection(t *testing.T) {
	setup()
	defer gock.Off()
	mockProcessingStatementSummary()

	serveRequest(asJSON(getPage(psPage("check-your-information"))))

	assert.Equal(t, http.StatusOK, resp.Code)
	v := decodeView(t)
	values := map[string]string{}
	for _, r := range v.Rows {
		values[r.Key] = r.Value
	}
	assert.Equal(t, psDocument, values["label.documentNumber"])
	assert.Equal(t, "order 12", values["label.userReference"])
	assert.Equal(t, "1, Horse Guards Road, London, SW1A 2HQ", values["label.address"])
	assert.Equal(t, "2", values["label.catches"])
	assert.Equal(t, "France", values["label.exportedTo"])
	_, hasVehicle := values["label.vehicle"]
	assert.False(t, hasVehicle)
	require.Len(t, v.Buttons, 1)
	assert.Equal(t, "submit", v.Buttons[0].Action)
	assert.True(t, gock.IsDone())
}

func TestSubmitGoesToDocumentCreated(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Post("/v1/documents/processingStatement/" + psDocument + "/submit").
		Reply(200).
		JSON(models.SubmitResult{Status: models.StatusComplete, DocumentURI: "/pdf/" + psDocument})

	serveRequest(postForm(psPage("check-your-information"), url.Values{"_action": {"submit"}}))

	assertRedirect(t, psPage("document-created"))
	assert.True(t, gock.IsDone())
}

func TestRejectedSubmissionShowsTheReasons(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Post("/v1/documents/processingStatement/" + psDocument + "/submit").
		Reply(200).
		JSON(models.SubmitResult{Errors: []models.FieldError{{Key: "catches", Message: "error.catches.required"}}})
	mockProcessingStatementSummary()

	serveRequest(asJSON(postForm(psPage("check-your-information"), url.Values{"_action": {"submit"}})))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	v := decodeView(t)
	assert.Equal(t, []string{"error.catches.required"}, errorMessages(v))
	assert.NotEmpty(t, v.Rows)
}

func TestSubmitFieldErrorsFromOrchestrationAreShown(t *testing.T) {
	setup()
	defer gock.Off()
	gock.New(orchestrationURL).
		Post("/v1/documents/processingStatement/" + psDocument + "/submit").
		Reply(400).
		JSON([]models.FieldError{{Key: "exporter", Message: "error.exporter.incomplete"}})
	mockProcessingStatementSummary()

	serveRequest(asJSON(postForm(psPage("check-your-information"), url.Values{"_action": {"submit"}})))

	assert.Equal(t, []string{"error.exporter.incomplete"}, errorMessages(decodeView(t)))
}

func TestSubmitNeedsTheSubmitAction(t *testing.T) {
	setup()

	serveRequest(postForm(psPage("check-your-information"), nil))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
