package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"studyhub/internal/analytics"
	"studyhub/internal/model"
	"studyhub/internal/service"
	serviceMocks "studyhub/internal/service/mocks"
	"studyhub/internal/store"
	storeMocks "studyhub/internal/store/mocks"
	"studyhub/internal/wire"
)

func newApp(t *testing.T) (*fiber.App, *storeMocks.MockStore, *serviceMocks.MockUploadService) {
	t.Helper()
	mStore := new(storeMocks.MockStore)
	mUploads := new(serviceMocks.MockUploadService)
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	RegisterRoutes(app, &Handler{Store: mStore, Uploads: mUploads})
	return app, mStore, mUploads
}

func TestHealth(t *testing.T) {
	app, _, _ := newApp(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "healthy", body["status"])

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetDocuments(t *testing.T) {
	app, mStore, _ := newApp(t)

	t.Run("success", func(t *testing.T) {
		mStore.On("GetDocuments", mock.Anything).Return([]model.Document{
			{ID: "d1", Title: "Lecture 1", FileType: model.FileTypePDF},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body wire.List[wire.Document]
		json.NewDecoder(resp.Body).Decode(&body)
		require.Len(t, body.Items, 1)
		assert.Equal(t, "d1", body.Items[0].ID)
		assert.Equal(t, "pdf", body.Items[0].FileType)
	})

	t.Run("empty collection encodes as empty items", func(t *testing.T) {
		mStore.On("GetDocuments", mock.Anything).Return([]model.Document{}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)

		raw := new(bytes.Buffer)
		raw.ReadFrom(resp.Body)
		assert.JSONEq(t, `{"items":[]}`, raw.String())
	})

	t.Run("store failure", func(t *testing.T) {
		mStore.On("GetDocuments", mock.Anything).Return(nil, errors.New("boom")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INTERNAL_ERROR", body.Error.Code)
	})
}

func TestCreateDocument(t *testing.T) {
	app, mStore, _ := newApp(t)

	t.Run("created", func(t *testing.T) {
		uploadedAt := time.Date(2024, 10, 15, 12, 0, 0, 0, time.UTC)
		mStore.On("AddDocument", mock.Anything, store.NewDocument{
			Title:      "Notes",
			Course:     "CS 101",
			FileType:   model.FileTypePython,
			FileName:   "hw1.py",
			UploadedAt: uploadedAt,
		}).Return(&model.Document{ID: "d1", Title: "Notes"}, nil).Once()

		payload := `{"title":"Notes","course":"CS 101","file_type":"python","file_name":"hw1.py","uploaded_at":"2024-10-15T12:00:00Z"}`
		req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mStore.AssertExpectations(t)
	})

	t.Run("file type derived from name when omitted", func(t *testing.T) {
		mStore.On("AddDocument", mock.Anything, mock.MatchedBy(func(nd store.NewDocument) bool {
			return nd.FileType == model.FileTypeExcel
		})).Return(&model.Document{ID: "d2"}, nil).Once()

		payload := `{"title":"Grades","file_name":"grades.xlsx"}`
		req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("missing title and file name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents", bytes.NewBufferString(`{"course":"CS 101"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUploadDocument(t *testing.T) {
	app, _, mUploads := newApp(t)

	t.Run("multipart upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		fw, err := mw.CreateFormFile("file", "lecture.pdf")
		require.NoError(t, err)
		fw.Write([]byte("%PDF-1.4"))
		mw.WriteField("title", "Lecture 1")
		mw.WriteField("course", "CS 101")
		require.NoError(t, mw.Close())

		mUploads.On("Upload", mock.Anything, mock.Anything).
			Return(&model.Document{ID: "d1", Title: "Lecture 1", FileType: model.FileTypePDF}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/upload", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		mUploads.AssertExpectations(t)
	})

	t.Run("missing file part", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/documents/upload", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "FILE_REQUIRED", body.Error.Code)
	})
}

func TestGetDocumentFile(t *testing.T) {
	app, _, mUploads := newApp(t)

	t.Run("redirects to the presigned url", func(t *testing.T) {
		mUploads.On("FileURL", mock.Anything, "d1").
			Return("https://objects.example/d1/lecture.pdf?sig=abc", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/d1/file", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusFound, resp.StatusCode)
		assert.Equal(t, "https://objects.example/d1/lecture.pdf?sig=abc", resp.Header.Get("Location"))
	})

	t.Run("metadata-only deployment", func(t *testing.T) {
		mUploads.On("FileURL", mock.Anything, "d1").
			Return("", service.ErrNoStorage).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/d1/file", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "FILE_UNAVAILABLE", body.Error.Code)
	})

	t.Run("unknown document", func(t *testing.T) {
		mUploads.On("FileURL", mock.Anything, "ghost").
			Return("", store.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/ghost/file", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDownloadDocument(t *testing.T) {
	app, mStore, _ := newApp(t)

	mStore.On("IncrementDownload", mock.Anything, "d1").Return(nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/documents/d1/download", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	mStore.AssertExpectations(t)
}

func TestFolderRoutes(t *testing.T) {
	app, mStore, _ := newApp(t)

	t.Run("get folder not found", func(t *testing.T) {
		mStore.On("GetFolder", mock.Anything, "missing").Return(nil, store.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/folders/missing", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})

	t.Run("create folder", func(t *testing.T) {
		mStore.On("AddFolder", mock.Anything, store.NewFolder{Name: "Week 1", Course: "CS 101"}).
			Return(&model.Folder{ID: "f1", Name: "Week 1"}, nil).Once()

		payload := `{"name":"Week 1","course":"CS 101"}`
		req := httptest.NewRequest(http.MethodPost, "/folders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("create folder requires name", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/folders", bytes.NewBufferString(`{"course":"CS 101"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("batch add to unknown folder", func(t *testing.T) {
		mStore.On("AddDocumentsToFolder", mock.Anything, "missing", mock.Anything).
			Return(nil, store.ErrNotFound).Once()

		payload := `[{"title":"Slides","file_name":"slides.pptx"}]`
		req := httptest.NewRequest(http.MethodPost, "/folders/missing/documents", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("delete folder", func(t *testing.T) {
		mStore.On("DeleteFolder", mock.Anything, "f1").Return(nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/folders/f1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	})
}

func TestCommentRoutes(t *testing.T) {
	app, mStore, _ := newApp(t)

	t.Run("filtered list", func(t *testing.T) {
		mStore.On("GetComments", mock.Anything, "doc-1").Return([]model.Comment{
			{ID: "c1", DocumentID: "doc-1", Author: "Sam", Content: "thanks"},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/comments?document_id=doc-1", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body wire.List[wire.Comment]
		json.NewDecoder(resp.Body).Decode(&body)
		require.Len(t, body.Items, 1)
		assert.Equal(t, "doc-1", body.Items[0].DocumentID)
	})

	t.Run("create requires document_id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewBufferString(`{"content":"hi"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("create", func(t *testing.T) {
		mStore.On("AddComment", mock.Anything, "doc-1", "", "nice").
			Return(&model.Comment{ID: "c2", DocumentID: "doc-1", Author: "Anonymous", Content: "nice"}, nil).Once()

		payload := `{"document_id":"doc-1","content":"nice"}`
		req := httptest.NewRequest(http.MethodPost, "/comments", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var body wire.Comment
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "Anonymous", body.Author)
	})
}

func TestCoopRoutes(t *testing.T) {
	app, mStore, _ := newApp(t)

	t.Run("by-company groups and sorts", func(t *testing.T) {
		mStore.On("GetCoops", mock.Anything).Return([]model.Coop{
			{ID: "1", BrotherName: "A", Company: "Acme", Semester: "Fall 2023", Status: model.CoopPast},
			{ID: "2", BrotherName: "B", Company: "Initech", Semester: "Spring 2024", Status: model.CoopPast},
			{ID: "3", BrotherName: "C", Company: "Acme", Semester: "Spring 2024", Status: model.CoopCurrent},
		}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/coops/by-company", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body wire.List[coopGroup]
		json.NewDecoder(resp.Body).Decode(&body)
		require.Len(t, body.Items, 2)
		assert.Equal(t, "Acme", body.Items[0].Company)
		assert.Equal(t, 2, body.Items[0].Count)
		// Current member sorts ahead of past.
		assert.Equal(t, "C", body.Items[0].Coops[0].BrotherName)
	})

	t.Run("create validates status", func(t *testing.T) {
		payload := `{"brother_name":"A","company":"Acme","status":"retired"}`
		req := httptest.NewRequest(http.MethodPost, "/coops", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "INVALID_STATUS", body.Error.Code)
	})

	t.Run("partial update", func(t *testing.T) {
		company := "Initech"
		mStore.On("UpdateCoop", mock.Anything, "c1", mock.MatchedBy(func(upd store.CoopUpdate) bool {
			return upd.Company != nil && *upd.Company == company && upd.Status == nil
		})).Return(&model.Coop{ID: "c1", Company: company}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/coops/c1", bytes.NewBufferString(`{"company":"Initech"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAnalyticsRoute(t *testing.T) {
	app, mStore, _ := newApp(t)

	t.Run("explicit range", func(t *testing.T) {
		mStore.On("GetAnalytics", mock.Anything, analytics.Week).
			Return(&analytics.Analytics{TotalDocuments: 3, TimeRange: analytics.Week}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/analytics?time_range=week", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body wire.Analytics
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, 3, body.TotalDocuments)
		assert.Equal(t, "week", body.TimeRange)
	})

	t.Run("unknown range defaults to month", func(t *testing.T) {
		mStore.On("GetAnalytics", mock.Anything, analytics.Month).
			Return(&analytics.Analytics{TimeRange: analytics.Month}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/analytics?time_range=decade", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("upstream failure maps to bad gateway", func(t *testing.T) {
		mStore.On("GetAnalytics", mock.Anything, analytics.Month).
			Return(nil, &store.TransportError{Op: "GET", URL: "http://remote/analytics", Status: 500}).Once()

		req := httptest.NewRequest(http.MethodGet, "/analytics", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)

		var body errorPayload
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "UPSTREAM_ERROR", body.Error.Code)
	})
}
