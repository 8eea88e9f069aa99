package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/cse-resource-hub/internal/models"
	appErrors "github.com/noah-isme/cse-resource-hub/pkg/errors"
)

type creatorMock struct {
	lastReq *models.CreateResourceRequest
	err     error
}

func (m *creatorMock) CreateResource(ctx context.Context, req models.CreateResourceRequest) (*models.Resource, error) {
	m.lastReq = &req
	if m.err != nil {
		return nil, m.err
	}
	created := models.Resource{
		ID:           "res-1",
		Title:        req.Title,
		Description:  req.Description,
		Subject:      req.Subject,
		Semester:     req.Semester,
		Tags:         req.Tags,
		FileURL:      req.FileURL,
		ContentURL:   req.ContentURL,
		UploadedBy:   req.UploadedBy,
		UploaderName: req.UploaderName,
		Status:       models.StatusPending,
	}
	return &created, nil
}

func studentIdentity(semester int) *models.Identity {
	return &models.Identity{
		Name:     "Asha Verma",
		Email:    "asha@example.edu",
		Role:     models.RoleStudent,
		Semester: &semester,
	}
}

func TestSubmissionServiceSubmit(t *testing.T) {
	creator := &creatorMock{}
	svc := NewSubmissionService(creator, nil)

	draft := &ResourceDraft{
		Title:      "  Sorting notes ",
		Subject:    "Algorithms",
		Semester:   3,
		Tags:       "notes, syllabus,, lab",
		FileURL:    "https://drive.example.com/f/1",
		ContentURL: "",
	}

	created, err := svc.Submit(context.Background(), draft, studentIdentity(3))
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, created.Status)

	req := creator.lastReq
	require.NotNil(t, req)
	assert.Equal(t, "Sorting notes", req.Title)
	assert.Equal(t, []string{"notes", "syllabus", "lab"}, req.Tags)
	require.NotNil(t, req.FileURL)
	assert.Equal(t, "https://drive.example.com/f/1", *req.FileURL)
	assert.Nil(t, req.ContentURL, "blank URLs go out as null")
	assert.Equal(t, "asha@example.edu", req.UploadedBy)
	assert.Equal(t, "Asha Verma", req.UploaderName)
}

func TestSubmissionServiceClearsDraftOnSuccess(t *testing.T) {
	svc := NewSubmissionService(&creatorMock{}, nil)

	draft := &ResourceDraft{
		Title:       "OS lab manual",
		Description: "All experiments",
		Subject:     "Operating Systems",
		Semester:    5,
		Tags:        "lab,manual",
		FileURL:     "https://example.com/a",
		ContentURL:  "https://example.com/b",
	}

	_, err := svc.Submit(context.Background(), draft, studentIdentity(3))
	require.NoError(t, err)

	assert.Equal(t, &ResourceDraft{Semester: 3}, draft,
		"draft resets to defaults with the submitter's own semester")
}

func TestSubmissionServiceSemesterDefaultsToStudentSemester(t *testing.T) {
	creator := &creatorMock{}
	svc := NewSubmissionService(creator, nil)

	draft := &ResourceDraft{Title: "Notes", Subject: "Maths"}
	_, err := svc.Submit(context.Background(), draft, studentIdentity(6))
	require.NoError(t, err)
	assert.Equal(t, 6, creator.lastReq.Semester)
}

func TestSubmissionServiceLeavesDraftOnFailure(t *testing.T) {
	creator := &creatorMock{err: errors.New("backend down")}
	svc := NewSubmissionService(creator, nil)

	draft := &ResourceDraft{Title: "Notes", Subject: "Maths", Semester: 2}
	original := *draft

	_, err := svc.Submit(context.Background(), draft, studentIdentity(2))
	require.Error(t, err)
	assert.Equal(t, original, *draft, "failed submission keeps the draft intact for retry")
}

func TestSubmissionServiceValidation(t *testing.T) {
	tests := []struct {
		name    string
		draft   ResourceDraft
		message string
	}{
		{name: "missing title", draft: ResourceDraft{Subject: "Maths", Semester: 1}, message: "title is required"},
		{name: "missing subject", draft: ResourceDraft{Title: "Notes", Semester: 1}, message: "subject is required"},
		{name: "semester out of range", draft: ResourceDraft{Title: "Notes", Subject: "Maths", Semester: 9}, message: "semester must be between 1 and 8"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			creator := &creatorMock{}
			svc := NewSubmissionService(creator, nil)

			draft := tc.draft
			_, err := svc.Submit(context.Background(), &draft, studentIdentity(2))
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
			assert.Nil(t, creator.lastReq, "validation failures must be rejected before any request is sent")
			assert.Equal(t, tc.draft, draft)
		})
	}
}

func TestSubmissionServiceRequiresIdentity(t *testing.T) {
	creator := &creatorMock{}
	svc := NewSubmissionService(creator, nil)

	_, err := svc.Submit(context.Background(), &ResourceDraft{Title: "Notes", Subject: "Maths", Semester: 1}, nil)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
	assert.Nil(t, creator.lastReq)
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		raw  string
		want []string
	}{
		{raw: "notes, syllabus,, lab", want: []string{"notes", "syllabus", "lab"}},
		{raw: "", want: nil},
		{raw: " , , ", want: nil},
		{raw: "single", want: []string{"single"}},
		{raw: "dup,dup", want: []string{"dup", "dup"}},
		{raw: " b , a ", want: []string{"b", "a"}},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, ParseTags(tc.raw), "raw %q", tc.raw)
	}
}
