package echoapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-signup/core/registration"
	"github.com/trezcool/masomo-signup/core/student"
)

const photoField = "profile_photo"

type studentApi struct {
	svc *student.Service
}

func registerStudentAPI(g *echo.Group, svc *student.Service) {
	api := studentApi{svc: svc}

	rg := g.Group("/register")
	rg.POST("", api.register)
	rg.POST("/validate-step", api.validateStep)

	g.GET("/students", api.query)
}

type studentResponse struct {
	Message string          `json:"message"`
	Student student.Student `json:"student"`
}

// Handlers

func (api *studentApi) validateStep(ctx echo.Context) error {
	var fields map[string]string
	if err := json.NewDecoder(ctx.Request().Body).Decode(&fields); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body").SetInternal(err)
	}
	if err := api.svc.ValidateStep(fields); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}

	photo, err := formPhoto(ctx)
	if err != nil {
		return errors.Wrap(err, "reading "+photoField)
	}

	s, err := api.svc.Register(data, photo)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, studentResponse{Message: "Registered successfully.", Student: s})
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll()
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, students)
}

// formPhoto returns the uploaded profile photo, or nil when none was sent.
// The content type is sniffed rather than trusted from the request.
func formPhoto(ctx echo.Context) (*student.Photo, error) {
	fh, err := ctx.FormFile(photoField)
	if err == http.ErrMissingFile || err == http.ErrNotMultipart {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, registration.MaxPhotoSize+1))
	if err != nil {
		return nil, err
	}
	p := registration.NewPhoto(fh.Filename, data)
	return &student.Photo{
		Filename:    p.Filename,
		ContentType: p.ContentType,
		Size:        fh.Size,
		Data:        p.Data,
	}, nil
}
