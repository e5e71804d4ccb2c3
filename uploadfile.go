package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/DEFRA/fes-frontend/archive"
	"github.com/DEFRA/fes-frontend/forms"
	"github.com/DEFRA/fes-frontend/logger"
	"github.com/DEFRA/fes-frontend/models"
	"github.com/DEFRA/fes-frontend/render"
	"github.com/DEFRA/fes-frontend/upload"
	"github.com/julienschmidt/httprouter"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func uploadKey(documentNumber string) string {
	return fmt.Sprintf("upload:%s:rows", documentNumber)
}

func (a *app) uploadView(r *http.Request, documentNumber string, rows []models.UploadRow) *render.View {
	lang := languageFrom(r.Context())
	v := a.view(r, "page.uploadFile.title")
	v.BackURL = catchCertificate.url(documentNumber, "how-are-you-adding-landings")
	v.Multipart = true
	v.Fields = []render.Field{{Name: "file", Type: render.File, Label: "label.file", Hint: "page.uploadFile.hint"}}
	v.Buttons = []render.Button{{Action: "upload", Label: "button.upload"}}

	v.Columns = []string{"column.row", "column.product", "column.dateLanded", "column.vessel", "column.exportWeight", "column.result"}
	valid := 0
	for _, row := range rows {
		result := a.catalog.T(lang, "upload.rowValid")
		if !row.Valid() {
			result = ""
			for i, key := range row.Errors {
				if i > 0 {
					result += "; "
				}
				result += a.catalog.T(lang, "upload.rowError", row.RowNumber, a.catalog.T(lang, key))
			}
		} else {
			valid++
		}
		v.Items = append(v.Items, render.Item{
			ID:    strconv.Itoa(row.RowNumber),
			Cells: []string{strconv.Itoa(row.RowNumber), row.ProductID, row.DateLanded, row.PLN, row.ExportWeight.StringFixed(2), result},
		})
	}
	if valid > 0 {
		v.Buttons = append(v.Buttons, render.Button{Action: "save", Label: "button.saveLandings"})
	}
	v.Data = map[string]interface{}{"rows": rows, "validRows": valid}
	return v
}

func (a *app) uploadedRows(r *http.Request, documentNumber string) []models.UploadRow {
	var rows []models.UploadRow
	if _, err := sessionFrom(r).GetJSON(uploadKey(documentNumber), &rows); err != nil {
		return nil
	}
	return rows
}

func (a *app) uploadFile(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	documentNumber := ps.ByName("documentNumber")
	if !a.flags.IsEnabled(featureLandingsUpload) {
		a.redirect(w, r, catchCertificate.url(documentNumber, "add-landings"))
		return
	}
	a.render(w, r, a.uploadView(r, documentNumber, a.uploadedRows(r, documentNumber)))
}

func (a *app) uploadFileAction(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	j := catchCertificate
	documentNumber := ps.ByName("documentNumber")
	here := j.url(documentNumber, "upload-file")
	if !a.flags.IsEnabled(featureLandingsUpload) {
		a.redirect(w, r, j.url(documentNumber, "add-landings"))
		return
	}
	s := sessionFrom(r)

	switch action(r) {
	case "upload", "":
		v := a.uploadView(r, documentNumber, nil)
		file, header, err := r.FormFile("file")
		if err != nil {
			a.invalid(w, r, v, []models.FieldError{forms.Error("file", "required")})
			return
		}
		defer file.Close()
		content, err := io.ReadAll(file)
		if err != nil {
			a.serverError(w, r, err)
			return
		}

		key := archive.Key(documentNumber, header.Filename, time.Now())
		if err := a.archive.Put(r.Context(), key, content, "text/csv"); err != nil {
			logger.FromContext(r.Context()).Warn("archiving upload failed", zap.String("key", key), zap.Error(err))
		}

		rows, err := upload.Parse(bytes.NewReader(content), viper.GetInt("upload.max_rows"))
		if err != nil {
			rule := "invalid"
			switch {
			case errors.Is(err, upload.ErrEmptyFile):
				rule = "empty"
			case errors.Is(err, upload.ErrInvalidEncoding):
				rule = "encoding"
			case errors.Is(err, upload.ErrTooManyRows):
				rule = "tooManyRows"
			}
			a.invalid(w, r, v, []models.FieldError{forms.Error("file", rule)})
			return
		}

		valid, _ := upload.Split(rows)
		if len(valid) > 0 {
			checked, err := a.api.ValidateUpload(r.Context(), documentNumber, valid)
			if err != nil {
				a.failOrInvalid(w, r, j, v, err)
				return
			}
			rows = upload.Merge(rows, checked)
		}
		if err := s.SetJSON(uploadKey(documentNumber), rows); err != nil {
			a.serverError(w, r, err)
			return
		}
		a.redirect(w, r, here)

	case "save":
		rows := a.uploadedRows(r, documentNumber)
		valid, _ := upload.Split(rows)
		if len(valid) == 0 {
			a.invalid(w, r, a.uploadView(r, documentNumber, rows), []models.FieldError{forms.Error("file", "noValidRows")})
			return
		}
		if err := a.api.SaveUpload(r.Context(), documentNumber, valid); err != nil {
			a.failOrInvalid(w, r, j, a.uploadView(r, documentNumber, rows), err)
			return
		}
		s.Unset(uploadKey(documentNumber))
		a.redirect(w, r, j.url(documentNumber, "add-landings"))

	default:
		a.badRequest(w, r)
	}
}
