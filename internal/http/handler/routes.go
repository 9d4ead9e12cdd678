package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"

	"intake/internal/model"
	"intake/internal/service"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// RegisterRoutes attaches the form pages, the JSON submission endpoint and the probes.
func RegisterRoutes(app *fiber.App, store Pinger, svc service.IntakeService, sessions *session.Store) {
	app.Get("/health", HealthCheck(store))
	app.Get("/healthz", LivenessProbe())

	app.Get("/", HomePage(sessions))
	app.Post("/", SubmitForm(svc, sessions))

	app.Post("/api/submissions", SubmitAPI(svc))
}

// HealthCheck checks document store connectivity only.
func HealthCheck(store Pinger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			return writeError(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "dependency unavailable")
		}
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "healthy"})
	}
}

// LivenessProbe always answers 200 while the process serves requests.
func LivenessProbe() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	}
}

// HomePage renders the form and consumes any pending flash message.
func HomePage(sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := popFlash(c, sessions)
		if err != nil {
			return err
		}
		return c.Render("index", fiber.Map{"Flash": f})
	}
}

// SubmitForm handles the browser form post. Success renders the confirmation page;
// any failure redirects back to the form with the outcome message flashed.
func SubmitForm(svc service.IntakeService, sessions *session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := submissionFromForm(c)
		out := svc.Submit(c.UserContext(), in)

		if !out.Success {
			if err := setFlash(c, sessions, flash{Category: flashError, Message: out.Message}); err != nil {
				return err
			}
			return c.Redirect("/", fiber.StatusSeeOther)
		}

		return c.Render("submit", fiber.Map{
			"Flash":     flash{Category: flashSuccess, Message: out.Message},
			"FirstName": in.FirstName,
		})
	}
}

// SubmitAPI godoc
// @Summary Submit an estimate request
// @Description Validates the contact form, stores the record and uploads the text summary.
// @Tags submissions
// @Accept x-www-form-urlencoded
// @Produce json
// @Param first_name formData string true "First name"
// @Param last_name formData string true "Last name"
// @Param address formData string true "Street address"
// @Param city formData string true "City"
// @Param zipcode formData string true "Zip code"
// @Param email formData string true "Email"
// @Param phone formData string true "Phone"
// @Success 201 {object} model.Outcome
// @Failure 422 {object} model.Outcome
// @Failure 502 {object} model.Outcome
// @Failure 500 {object} model.Outcome
// @Router /api/submissions [post]
func SubmitAPI(svc service.IntakeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		out := svc.Submit(c.UserContext(), submissionFromForm(c))
		return c.Status(statusForOutcome(out)).JSON(out)
	}
}

func submissionFromForm(c *fiber.Ctx) model.Submission {
	return model.Submission{
		FirstName: c.FormValue("first_name"),
		LastName:  c.FormValue("last_name"),
		Address:   c.FormValue("address"),
		City:      c.FormValue("city"),
		Zipcode:   c.FormValue("zipcode"),
		Email:     c.FormValue("email"),
		Phone:     c.FormValue("phone"),
	}
}

func statusForOutcome(out model.Outcome) int {
	switch out.Code {
	case model.CodeOK:
		return fiber.StatusCreated
	case model.CodeMissingField, model.CodeInvalidEmail, model.CodeInvalidPhone:
		return fiber.StatusUnprocessableEntity
	case model.CodeWriteFailed, model.CodeUploadFailed, model.CodeCompensationFailed:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
