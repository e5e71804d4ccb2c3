package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/orchestration"
)

// journey is one of the three document types an exporter can create
type journey struct {
	slug    string
	kind    orchestration.Journey
	title   string
	section string // document number infix, CC, PS or SD
	// pages maps progress section names to the page that edits them
	pages map[string]string
}

var (
	catchCertificate = &journey{
		slug:    "create-catch-certificate",
		kind:    orchestration.CatchCertificate,
		title:   "journey.catchCertificate",
		section: "CC",
		pages: map[string]string{
			"reference":         "add-your-reference",
			"exporter":          "add-exporter-details",
			"products":          "what-are-you-exporting",
			"landings":          "how-are-you-adding-landings",
			"conservation":      "whose-waters-were-they-caught-in",
			"exportDestination": "what-export-destination",
			"transport":         "how-does-the-export-leave-the-uk",
		},
	}
	processingStatement = &journey{
		slug:    "create-processing-statement",
		kind:    orchestration.ProcessingStatement,
		title:   "journey.processingStatement",
		section: "PS",
		pages: map[string]string{
			"reference":         "add-your-reference",
			"exporter":          "add-exporter-details",
			"consignment":       "add-consignment-details",
			"catches":           "add-catch-details",
			"processingPlant":   "add-processing-plant-details",
			"healthCertificate": "add-health-certificate",
			"exportDestination": "what-export-destination",
		},
	}
	storageDocument = &journey{
		slug:    "create-storage-document",
		kind:    orchestration.StorageDocument,
		title:   "journey.storageDocument",
		section: "SD",
		pages: map[string]string{
			"reference":         "add-your-reference",
			"exporter":          "add-exporter-details",
			"catches":           "add-product-to-this-consignment",
			"storageFacility":   "add-storage-facility-details",
			"arrivalTransport":  "add-arrival-transportation-details",
			"transport":         "how-does-the-export-leave-the-uk",
			"exportDestination": "what-export-destination",
		},
	}
	journeys = []*journey{catchCertificate, processingStatement, storageDocument}
)

func (j *journey) dashboard() string {
	return "/" + j.slug
}

// route is the router pattern of a document page
func (j *journey) route(page string) string {
	return "/" + j.slug + "/:documentNumber/" + page
}

// url is the address of a page of documentNumber
func (j *journey) url(documentNumber, page string) string {
	return "/" + j.slug + "/" + documentNumber + "/" + page
}

// afterSave is where an action goes once its section is saved: the dashboard
// for drafts, otherwise next
func (j *journey) afterSave(r *http.Request, documentNumber, next string) string {
	if isDraft(r) {
		return j.dashboard()
	}
	return j.url(documentNumber, next)
}

func isDraft(r *http.Request) bool {
	return action(r) == "saveAsDraft"
}

func (j *journey) progress(documentNumber string) string {
	return j.url(documentNumber, "progress")
}
