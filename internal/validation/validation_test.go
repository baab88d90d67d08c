package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/justsurfingit/job-application-tracker/internal/dtos"
	"github.com/justsurfingit/job-application-tracker/internal/models"
)

func fieldNames(errs []FieldError) []string {
	names := make([]string, len(errs))
	for i, e := range errs {
		names[i] = e.Field
	}
	return names
}

func TestStruct_ValidCreateRequest(t *testing.T) {
	req := &dtos.ApplicationCreateRequest{
		Title:   "Software Engineer",
		Company: "Acme",
		Status:  models.StatusApplied,
		JobURL:  "https://example.com/job",
	}
	assert.Nil(t, Struct(req))
}

func TestStruct_ReportsEveryOffendingField(t *testing.T) {
	req := &dtos.ApplicationCreateRequest{
		Title:   "",
		Company: "",
		Status:  "Bogus",
		JobURL:  "not a url",
	}
	errs := Struct(req)
	require.Len(t, errs, 4)

	names := fieldNames(errs)
	assert.Contains(t, names, "title")
	assert.Contains(t, names, "company")
	assert.Contains(t, names, "status")
	assert.Contains(t, names, "job_url")
}

func TestStruct_BogusStatusNamesStatusField(t *testing.T) {
	req := &dtos.ApplicationCreateRequest{
		Title:   "SWE",
		Company: "Acme",
		Status:  "Bogus",
	}
	errs := Struct(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "status", errs[0].Field)
	assert.Contains(t, errs[0].Reason, "Applied")
}

func TestStruct_WhitespaceOnlyTitleFailsAfterNormalize(t *testing.T) {
	req := &dtos.ApplicationCreateRequest{
		Title:   "   ",
		Company: "Acme",
	}
	req.Normalize()
	errs := Struct(req)
	require.Len(t, errs, 1)
	assert.Equal(t, "title", errs[0].Field)
}

func TestStruct_LengthBounds(t *testing.T) {
	req := &dtos.ApplicationCreateRequest{
		Title:   strings.Repeat("x", 101),
		Company: "Acme",
		Notes:   strings.Repeat("n", 2001),
	}
	errs := Struct(req)
	names := fieldNames(errs)
	assert.Contains(t, names, "title")
	assert.Contains(t, names, "notes")

	req.Title = strings.Repeat("x", 100)
	req.Notes = strings.Repeat("n", 2000)
	assert.Nil(t, Struct(req))
}

func TestStruct_UpdatePatchPointerFields(t *testing.T) {
	empty := ""
	bogus := models.Status("Ghosted")
	req := &dtos.ApplicationUpdateRequest{
		Title:  &empty,
		Status: &bogus,
	}
	errs := Struct(req)
	names := fieldNames(errs)
	assert.Contains(t, names, "title")
	assert.Contains(t, names, "status")

	// nil pointers mean "unchanged" and must not be validated
	assert.Nil(t, Struct(&dtos.ApplicationUpdateRequest{}))
}

func TestStruct_EveryEnumeratedStatusAccepted(t *testing.T) {
	for _, status := range models.AllStatuses {
		req := &dtos.ApplicationCreateRequest{
			Title:   "SWE",
			Company: "Acme",
			Status:  status,
		}
		assert.Nil(t, Struct(req), "status %q should be valid", status)
	}
}
