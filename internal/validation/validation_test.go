package validation

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pixelcraft/agency-api/internal/apperror"
	"github.com/pixelcraft/agency-api/internal/models"
)

func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	ae := Translate(err)
	require.NotNil(t, ae)
	assert.Equal(t, apperror.KindValidation, ae.Kind)
	out := map[string]string{}
	for _, f := range ae.Fields {
		out[f.Field] = f.Message
	}
	return out
}

func TestRegisterNormalisesBeforeValidating(t *testing.T) {
	v := New()
	req := &models.RegisterRequest{Name: "  Jane Doe ", Email: " Jane@Example.COM ", Password: "Secret123"}

	require.NoError(t, v.ValidateStruct(req))
	assert.Equal(t, "Jane Doe", req.Name)
	assert.Equal(t, "jane@example.com", req.Email)
}

func TestRegisterCollectsEveryFailure(t *testing.T) {
	v := New()
	req := &models.RegisterRequest{Name: "J4ne", Email: "nope", Password: "alllowercase"}

	fields := fieldsOf(t, v.ValidateStruct(req))
	assert.Len(t, fields, 3)
	assert.Contains(t, fields["name"], "letters and spaces")
	assert.Equal(t, "Please provide a valid email", fields["email"])
	assert.Contains(t, fields["password"], "uppercase")
}

func TestPasswordValueIsNotEchoed(t *testing.T) {
	v := New()
	ae := Translate(v.ValidateStruct(&models.RegisterRequest{Name: "Jane", Email: "jane@example.com", Password: "short"}))
	require.NotNil(t, ae)
	for _, f := range ae.Fields {
		if f.Field == "password" {
			assert.Nil(t, f.Value)
		}
	}
}

func TestNestedProjectFieldPaths(t *testing.T) {
	v := New()
	bad := "not a url"
	req := &models.CreateProjectRequest{
		Title:        "Site",
		Description:  "A portfolio website build",
		Category:     "space-travel",
		Technologies: []string{"Go", strings.Repeat("x", 31)},
		Links:        &models.LinksInput{Live: &bad},
	}

	fields := fieldsOf(t, v.ValidateStruct(req))
	assert.Contains(t, fields, "category")
	assert.Contains(t, fields, "links.live")
	assert.Contains(t, fields, "technologies[1]")
	assert.Contains(t, fields["category"], "web-development")
}

func TestTooManyTechnologies(t *testing.T) {
	v := New()
	req := &models.CreateProjectRequest{
		Title:        "Site",
		Description:  "A portfolio website build",
		Category:     "branding",
		Technologies: make([]string, 11),
	}
	for i := range req.Technologies {
		req.Technologies[i] = "tech"
	}

	fields := fieldsOf(t, v.ValidateStruct(req))
	assert.Equal(t, "technologies must contain at most 10 items", fields["technologies"])
}

func TestContactRules(t *testing.T) {
	v := New()
	phone := "0123"
	req := &models.ContactRequest{
		Name:    "Ann",
		Email:   "ann@example.com",
		Phone:   &phone,
		Subject: "Hi",
		Message: "Too short",
		Budget:  "a-million",
	}

	fields := fieldsOf(t, v.ValidateStruct(req))
	assert.Equal(t, "Please provide a valid phone number", fields["phone"])
	assert.Contains(t, fields, "subject")
	assert.Contains(t, fields, "message")
	assert.Contains(t, fields, "budget")
}

func TestBlankNoteFailsAfterTrim(t *testing.T) {
	v := New()
	fields := fieldsOf(t, v.ValidateStruct(&models.NoteRequest{Note: "   ", Type: "internal"}))
	assert.Equal(t, "note is required", fields["note"])
}

func TestListQueryBounds(t *testing.T) {
	v := New()
	zero, big := 0, 101
	fields := fieldsOf(t, v.ValidateStruct(&models.ContactListQuery{Page: &zero, Limit: &big}))
	assert.Contains(t, fields, "page")
	assert.Contains(t, fields, "limit")

	one := 1
	assert.NoError(t, v.ValidateStruct(&models.ContactListQuery{Page: &one}))
}

func TestTranslateDecodeErrors(t *testing.T) {
	var dst models.LoginRequest
	err := json.Unmarshal([]byte(`{"email": 5}`), &dst)
	fields := fieldsOf(t, err)
	assert.Contains(t, fields, "email")

	err = json.Unmarshal([]byte(`{"email":`), &dst)
	fields = fieldsOf(t, err)
	assert.Contains(t, fields, "body")
}

func TestTranslatePassesThroughAppErrors(t *testing.T) {
	orig := apperror.NotFound("gone")
	assert.Same(t, orig, Translate(orig))
}
