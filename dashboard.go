package main

import (
	"net/http"

	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/julienschmidt/httprouter"
	"golang.org/x/sync/errgroup"
)

const flashNotification = "notification"

type dashboardData struct {
	Drafts    []models.Document `json:"drafts"`
	Completed []models.Document `json:"completed"`
}

func (a *app) dashboard(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		var data dashboardData
		g, ctx := errgroup.WithContext(r.Context())
		g.Go(func() error {
			docs, err := a.api.ListDocuments(ctx, j.kind, models.StatusDraft)
			data.Drafts = docs
			return err
		})
		g.Go(func() error {
			docs, err := a.api.ListDocuments(ctx, j.kind, models.StatusComplete)
			data.Completed = docs
			return err
		})
		if err := g.Wait(); err != nil {
			a.fail(w, r, nil, err)
			return
		}

		v := a.view(r, j.title)
		v.Notification = sessionFrom(r).TakeFlash(flashNotification)
		v.Columns = []string{"column.documentNumber", "column.reference", "column.status"}
		for _, d := range data.Drafts {
			v.Items = append(v.Items, render.Item{
				ID:    d.DocumentNumber,
				Cells: []string{d.DocumentNumber, d.UserReference, d.Status},
				Link:  j.progress(d.DocumentNumber),
			})
		}
		for _, d := range data.Completed {
			v.Items = append(v.Items, render.Item{
				ID:    d.DocumentNumber,
				Cells: []string{d.DocumentNumber, d.UserReference, d.Status},
				Link:  d.DocumentURI,
			})
		}
		v.Buttons = []render.Button{{Action: "create", Label: "button.createDocument"}}
		v.Data = data
		a.render(w, r, v)
	}
}

func (a *app) dashboardAction(j *journey) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if action(r) != "create" {
			a.badRequest(w, r)
			return
		}
		documentNumber, err := a.api.CreateDraft(r.Context(), j.kind)
		if err != nil {
			a.fail(w, r, j, err)
			return
		}
		a.redirect(w, r, j.progress(documentNumber))
	}
}
