package forms

import (
	"net/url"
	"testing"
	"time"

	"github.com/DEFRA/fes-frontend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type landingForm struct {
	ProductID    string   `form:"productId" validate:"required"`
	PLN          string   `form:"pln" validate:"required,plnumber"`
	DateLanded   string   `form:"dateLanded" validate:"required,pastdate"`
	ExportWeight string   `form:"exportWeight" validate:"required,weight"`
	Waters       []string `form:"caughtIn"`
	Postcode     string   `form:"postcode" validate:"omitempty,postcode"`
}

func TestDecode(t *testing.T) {
	values := url.Values{
		"productId":    {" p1 "},
		"pln":          {"PH1100"},
		"dateLanded":   {"2026-10-01"},
		"exportWeight": {"12.5"},
		"caughtIn":     {"uk", "eu"},
		"csrf":         {"ignored"},
	}

	var form landingForm
	require.NoError(t, Decode(values, &form))

	assert.Equal(t, "p1", form.ProductID)
	assert.Equal(t, "12.5", form.ExportWeight)
	assert.Equal(t, []string{"uk", "eu"}, form.Waters)
}

func TestDecodeSingleValueIntoSlice(t *testing.T) {
	var form landingForm
	require.NoError(t, Decode(url.Values{"caughtIn": {"other"}}, &form))

	assert.Equal(t, []string{"other"}, form.Waters)
}

func TestValidateUsesFormNames(t *testing.T) {
	Now = func() time.Time { return time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC) }
	defer func() { Now = time.Now }()

	form := landingForm{
		PLN:          "not a pln",
		DateLanded:   "2026-10-20",
		ExportWeight: "0",
		Postcode:     "XYZ",
	}

	errs := Validate(&form)

	assert.Equal(t, []models.FieldError{
		{Key: "productId", Message: "error.productId.required"},
		{Key: "pln", Message: "error.pln.plnumber"},
		{Key: "dateLanded", Message: "error.dateLanded.pastdate"},
		{Key: "exportWeight", Message: "error.exportWeight.weight"},
		{Key: "postcode", Message: "error.postcode.postcode"},
	}, errs)
}

func TestValidatePasses(t *testing.T) {
	form := landingForm{
		ProductID:    "p1",
		PLN:          "PH 1100",
		DateLanded:   "2020-01-31",
		ExportWeight: "100.25",
		Postcode:     "NE4 7YH",
	}

	assert.Empty(t, Validate(&form))
}

func TestParseWeight(t *testing.T) {
	for _, ok := range []string{"1", "0.01", "12.50", " 7.5 ", "99999999999.99"} {
		_, valid := ParseWeight(ok)
		assert.True(t, valid, ok)
	}
	for _, bad := range []string{"", "0", "-1", "1.234", "12.500", "1e2", ".5", "abc", "100000000000"} {
		_, valid := ParseWeight(bad)
		assert.False(t, valid, bad)
	}
}

func TestPatterns(t *testing.T) {
	assert.True(t, IsPostcode("sw1a 1aa"))
	assert.True(t, IsPostcode("M11AE"))
	assert.False(t, IsPostcode("12345"))

	assert.True(t, IsDocumentNumber("GBR-2026-CC-0A1B2C3D4"))
	assert.True(t, IsDocumentNumber("GBR-2026-SD-ABCDEFGHI"))
	assert.False(t, IsDocumentNumber("GBR-2026-XX-0A1B2C3D4"))
	assert.False(t, IsDocumentNumber("catch-certificates"))
}

func TestHealthCertificateRule(t *testing.T) {
	type healthForm struct {
		Number string `form:"healthCertificateNumber" validate:"required,healthcert"`
	}

	assert.Empty(t, Validate(&healthForm{Number: "20/2/123456"}))
	assert.Equal(t, []models.FieldError{Error("healthCertificateNumber", "healthcert")}, Validate(&healthForm{Number: "2/20/123456"}))
}
