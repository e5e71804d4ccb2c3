package main

import (
	"net/http"
	"sync"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func addRoutes(router *httprouter.Router, a *app) {
	router.GET("/info", info)
	router.GET("/health", health)
	router.GET("/forbidden", a.forbidden)
	router.GET("/", home)
	router.GET("/change-language", a.changeLanguage)
	router.GET("/privacy-notice", a.page(a.privacyNotice, withoutPrivacy))
	router.POST("/privacy-notice", a.page(a.acceptPrivacyNotice, withoutPrivacy))

	for _, j := range journeys {
		in := forJourney(j)
		router.GET(j.dashboard(), a.page(a.dashboard(j)))
		router.POST(j.dashboard(), a.page(a.dashboardAction(j)))

		router.GET(j.route("progress"), a.page(a.progress(j), in))
		router.GET(j.route("add-your-reference"), a.page(a.reference(j), in))
		router.POST(j.route("add-your-reference"), a.page(a.saveReference(j), in))
		router.GET(j.route("add-exporter-details"), a.page(a.exporter(j), in))
		router.POST(j.route("add-exporter-details"), a.page(a.saveExporter(j), in))
		router.GET(j.route(exporterAddress.page), a.page(a.address(j, exporterAddress), in))
		router.POST(j.route(exporterAddress.page), a.page(a.addressAction(j, exporterAddress), in))
		router.GET(j.route("what-export-destination"), a.page(a.destination(j), in))
		router.POST(j.route("what-export-destination"), a.page(a.saveDestination(j), in))
		router.GET(j.route("delete-this-draft"), a.page(a.deleteDraft(j), in))
		router.POST(j.route("delete-this-draft"), a.page(a.confirmDeleteDraft(j), in))
		router.GET(j.route("check-your-information"), a.page(a.checkYourInformation(j), in))
		router.POST(j.route("check-your-information"), a.page(a.submitDocument(j), in))
		router.GET(j.route("document-created"), a.page(a.documentCreated(j), in))

		copyOpts := []func(*pageOptions){in}
		if j == catchCertificate {
			copyOpts = append(copyOpts, behindFeature(featureCopyCertificate))
		}
		router.GET(j.route("copy-this-document"), a.page(a.copyDocument(j), copyOpts...))
		router.POST(j.route("copy-this-document"), a.page(a.confirmCopyDocument(j), copyOpts...))

		if j != processingStatement {
			router.GET(j.route(transportPage), a.page(a.transport(j), in))
			router.POST(j.route(transportPage), a.page(a.saveTransport(j), in))
			for _, vh := range vehicles {
				router.GET(j.route(vh.page), a.page(a.transportDetails(j, vh), in))
				router.POST(j.route(vh.page), a.page(a.saveTransportDetails(j, vh), in))
			}
		}
	}

	cc := forJourney(catchCertificate)
	router.GET(catchCertificate.route("what-are-you-exporting"), a.page(a.products, cc))
	router.POST(catchCertificate.route("what-are-you-exporting"), a.page(a.productsAction, cc))
	router.GET(catchCertificate.route("how-are-you-adding-landings"), a.page(a.landingsEntry, cc))
	router.POST(catchCertificate.route("how-are-you-adding-landings"), a.page(a.saveLandingsEntry, cc))
	router.GET(catchCertificate.route("add-landings"), a.page(a.landings, cc))
	router.POST(catchCertificate.route("add-landings"), a.page(a.landingsAction, cc))
	router.GET(catchCertificate.route("upload-file"), a.page(a.uploadFile, cc))
	router.POST(catchCertificate.route("upload-file"), a.page(a.uploadFileAction, cc))
	router.GET(catchCertificate.route("whose-waters-were-they-caught-in"), a.page(a.conservation, cc))
	router.POST(catchCertificate.route("whose-waters-were-they-caught-in"), a.page(a.saveConservation, cc))

	ps := forJourney(processingStatement)
	router.GET(processingStatement.route("add-consignment-details"), a.page(a.consignment, ps))
	router.POST(processingStatement.route("add-consignment-details"), a.page(a.saveConsignment, ps))
	router.GET(processingStatement.route("add-catch-details"), a.page(a.processingCatches, ps))
	router.POST(processingStatement.route("add-catch-details"), a.page(a.processingCatchesAction, ps))
	router.GET(processingStatement.route("add-processing-plant-details"), a.page(a.plant, ps))
	router.POST(processingStatement.route("add-processing-plant-details"), a.page(a.savePlant, ps))
	router.GET(processingStatement.route(plantAddress.page), a.page(a.address(processingStatement, plantAddress), ps))
	router.POST(processingStatement.route(plantAddress.page), a.page(a.addressAction(processingStatement, plantAddress), ps))
	router.GET(processingStatement.route("add-health-certificate"), a.page(a.healthCertificate, ps))
	router.POST(processingStatement.route("add-health-certificate"), a.page(a.saveHealthCertificate, ps))

	sd := forJourney(storageDocument)
	router.GET(storageDocument.route("add-product-to-this-consignment"), a.page(a.storageCatches, sd))
	router.POST(storageDocument.route("add-product-to-this-consignment"), a.page(a.storageCatchesAction, sd))
	router.GET(storageDocument.route("add-storage-facility-details"), a.page(a.facility, sd))
	router.POST(storageDocument.route("add-storage-facility-details"), a.page(a.saveFacility, sd))
	router.GET(storageDocument.route(facilityAddress.page), a.page(a.address(storageDocument, facilityAddress), sd))
	router.POST(storageDocument.route(facilityAddress.page), a.page(a.addressAction(storageDocument, facilityAddress), sd))
	router.GET(storageDocument.route("add-arrival-transportation-details"), a.page(a.arrivalTransport, sd, behindFeature(featureArrivalTransport)))
	router.POST(storageDocument.route("add-arrival-transportation-details"), a.page(a.saveArrivalTransport, sd, behindFeature(featureArrivalTransport)))

	router.NotFound = http.HandlerFunc(a.notFound)
}

func startServer(handler http.Handler, wg *sync.WaitGroup) *http.Server {
	srv := &http.Server{
		Addr:              ":" + viper.GetString("listen_port"),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		defer wg.Done()
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			zap.L().Fatal("ListenAndServe()", zap.Error(err))
		}
	}()

	return srv
}
