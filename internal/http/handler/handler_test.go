package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"intake/internal/http/views"
	"intake/internal/model"
	repoMocks "intake/internal/repository/mocks"
	serviceMocks "intake/internal/service/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestApp(svc *serviceMocks.MockIntakeService, store Pinger) *fiber.App {
	app := fiber.New(fiber.Config{
		Views:        views.Engine(),
		ErrorHandler: ErrorHandler(),
	})
	RegisterRoutes(app, store, svc, session.New())
	return app
}

func formBody() url.Values {
	return url.Values{
		"first_name": {"Jane"},
		"last_name":  {"Doe"},
		"address":    {"12 Elm St, Apt 4"},
		"city":       {"Austin"},
		"zipcode":    {"78701"},
		"email":      {"jane.doe@example.com"},
		"phone":      {"+1 (512) 555-0142"},
	}
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	return req
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

var wantSubmission = model.Submission{
	FirstName: "Jane",
	LastName:  "Doe",
	Address:   "12 Elm St, Apt 4",
	City:      "Austin",
	Zipcode:   "78701",
	Email:     "jane.doe@example.com",
	Phone:     "+1 (512) 555-0142",
}

func TestHealthCheck(t *testing.T) {
	store := new(repoMocks.MockRecordRepository)
	app := fiber.New()
	app.Get("/health", HealthCheck(store))

	t.Run("healthy", func(t *testing.T) {
		store.On("Ping", mock.Anything).Return(nil).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		var body map[string]string
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		store.On("Ping", mock.Anything).Return(errors.New("unavailable")).Once()

		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "SERVICE_UNAVAILABLE", body.Error.Code)
	})

	store.AssertExpectations(t)
}

func TestLivenessProbe(t *testing.T) {
	app := fiber.New()
	app.Get("/healthz", LivenessProbe())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHomePage_RendersForm(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockIntakeService), new(repoMocks.MockRecordRepository))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	for _, field := range []string{"first_name", "last_name", "address", "city", "zipcode", "email", "phone"} {
		assert.Contains(t, body, `name="`+field+`"`)
	}
	assert.NotContains(t, body, `role="alert"`)
}

func TestSubmitForm_Success(t *testing.T) {
	svc := new(serviceMocks.MockIntakeService)
	app := newTestApp(svc, new(repoMocks.MockRecordRepository))

	svc.On("Submit", mock.Anything, wantSubmission).Return(model.Outcome{
		Success:  true,
		Code:     model.CodeOK,
		Message:  "Your estimation has been submitted successfully!",
		RecordID: "rec-1",
	}).Once()

	resp, err := app.Test(postForm("/", formBody()))
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "Your estimation has been submitted successfully!")
	assert.Contains(t, body, "flash-success")
	assert.Contains(t, body, "Thank you, Jane.")
	svc.AssertExpectations(t)
}

func TestSubmitForm_FailureFlashesAndRedirects(t *testing.T) {
	svc := new(serviceMocks.MockIntakeService)
	app := newTestApp(svc, new(repoMocks.MockRecordRepository))

	form := formBody()
	form.Set("email", "nope")
	in := wantSubmission
	in.Email = "nope"

	svc.On("Submit", mock.Anything, in).Return(model.Outcome{
		Code:    model.CodeInvalidEmail,
		Message: "Please enter a valid email address.",
	}).Once()

	resp, err := app.Test(postForm("/", form))
	require.NoError(t, err)

	assert.Equal(t, http.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
	cookies := resp.Cookies()
	require.NotEmpty(t, cookies)

	// The flash shows on the next page view, then is gone.
	get := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		get.AddCookie(c)
	}
	resp, err = app.Test(get)
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "Please enter a valid email address.")
	assert.Contains(t, body, "flash-error")

	again := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range cookies {
		again.AddCookie(c)
	}
	resp, err = app.Test(again)
	require.NoError(t, err)
	assert.NotContains(t, readBody(t, resp), "Please enter a valid email address.")

	svc.AssertExpectations(t)
}

func TestSubmitAPI_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		outcome    model.Outcome
		wantStatus int
	}{
		{"created", model.Outcome{Success: true, Code: model.CodeOK, RecordID: "rec-1"}, http.StatusCreated},
		{"missing field", model.Outcome{Code: model.CodeMissingField}, http.StatusUnprocessableEntity},
		{"invalid phone", model.Outcome{Code: model.CodeInvalidPhone}, http.StatusUnprocessableEntity},
		{"write failed", model.Outcome{Code: model.CodeWriteFailed}, http.StatusBadGateway},
		{"upload failed", model.Outcome{Code: model.CodeUploadFailed}, http.StatusBadGateway},
		{"orphaned", model.Outcome{Code: model.CodeCompensationFailed}, http.StatusBadGateway},
		{"internal", model.Outcome{Code: model.CodeInternal}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(serviceMocks.MockIntakeService)
			app := newTestApp(svc, new(repoMocks.MockRecordRepository))
			svc.On("Submit", mock.Anything, wantSubmission).Return(tt.outcome).Once()

			resp, err := app.Test(postForm("/api/submissions", formBody()))
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var got model.Outcome
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&got))
			assert.Equal(t, tt.outcome, got)
			svc.AssertExpectations(t)
		})
	}
}

func TestRouting(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockIntakeService), new(repoMocks.MockRecordRepository))

	t.Run("unknown path", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/nope", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		var body errorPayload
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "NOT_FOUND", body.Error.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/submissions", nil))
		require.NoError(t, err)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}

func TestErrorHandler_BrowserGetsPage(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockIntakeService), new(repoMocks.MockRecordRepository))

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), fiber.MIMETextHTML)
	assert.Contains(t, readBody(t, resp), "Sorry, resource not found.")
}

func TestErrorHandler_APIStaysJSON(t *testing.T) {
	app := newTestApp(new(serviceMocks.MockIntakeService), new(repoMocks.MockRecordRepository))

	req := httptest.NewRequest(http.MethodGet, "/api/nope", nil)
	req.Header.Set("Accept", "text/html")
	resp, err := app.Test(req)
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	var body errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "NOT_FOUND", body.Error.Code)
}

func TestErrorHandler_WrappedFiberError(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler()})
	app.Get("/api/wrapped", func(c *fiber.Ctx) error {
		return fmt.Errorf("decode: %w", fiber.ErrBadRequest)
	})
	app.Get("/api/plain", func(c *fiber.Ctx) error {
		return errors.New("db password=hunter2 rejected")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/wrapped", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/api/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), "hunter2")
}
