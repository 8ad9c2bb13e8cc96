package backendsvc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/pkg/errors"
	"github.com/sendgrid/rest"

	"github.com/trezcool/masomo-signup/core"
	"github.com/trezcool/masomo-signup/core/registration"
)

var errUnexpectedResponse = errors.New("unexpected backend response")

type (
	Options struct {
		BaseURL          string
		ValidateStepPath string
		RegisterPath     string
		Timeout          time.Duration
	}

	// Client talks to the registration endpoints of the backend API.
	Client struct {
		opts   Options
		client *rest.Client
		logger core.Logger
	}

	errorEnvelope struct {
		Errors  map[string][]string `json:"errors"`
		Message string              `json:"message"`
	}
)

var _ registration.Backend = (*Client)(nil)

func NewClient(opts Options, logger core.Logger) *Client {
	return &Client{
		opts:   opts,
		client: &rest.Client{HTTPClient: &http.Client{Timeout: opts.Timeout}},
		logger: logger,
	}
}

// OptionsFromConfig reads the backend section of the configuration.
func OptionsFromConfig(conf *core.Config) Options {
	return Options{
		BaseURL:          conf.Backend.BaseURL,
		ValidateStepPath: conf.Backend.ValidateStepPath,
		RegisterPath:     conf.Backend.RegisterPath,
		Timeout:          conf.Backend.Timeout,
	}
}

func (c *Client) ValidateStep(ctx context.Context, fields map[string]string) error {
	body, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrap(err, "encoding step fields")
	}
	req := rest.Request{
		Method:  rest.Post,
		BaseURL: c.opts.BaseURL + c.opts.ValidateStepPath,
		Headers: map[string]string{
			"Content-Type": "application/json",
			"Accept":       "application/json",
		},
		Body: body,
	}
	return c.send(ctx, req)
}

func (c *Client) Register(ctx context.Context, reg registration.Registration) error {
	body, contentType, err := encodeRegistration(reg)
	if err != nil {
		return errors.Wrap(err, "encoding registration")
	}
	req := rest.Request{
		Method:  rest.Post,
		BaseURL: c.opts.BaseURL + c.opts.RegisterPath,
		Headers: map[string]string{
			"Content-Type": contentType,
			"Accept":       "application/json",
		},
		Body: body,
	}
	return c.send(ctx, req)
}

func (c *Client) send(ctx context.Context, req rest.Request) error {
	c.logger.Debug("backend request", map[string]interface{}{"method": string(req.Method), "url": req.BaseURL})

	httpReq, err := rest.BuildRequestObject(req)
	if err != nil {
		return errors.Wrapf(err, "building %s %s", req.Method, req.BaseURL)
	}
	res, err := c.client.MakeRequest(httpReq.WithContext(ctx))
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.BaseURL)
	}
	resp, err := rest.BuildResponse(res)
	if err != nil {
		return errors.Wrapf(err, "reading %s %s response", req.Method, req.BaseURL)
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return decodeError(resp)
}

// decodeError turns an error response into a *registration.RemoteError
// when it carries the `{"errors": {...}, "message": "..."}` envelope.
func decodeError(resp *rest.Response) error {
	var env errorEnvelope
	if err := json.Unmarshal([]byte(resp.Body), &env); err != nil || (len(env.Errors) == 0 && env.Message == "") {
		return errors.Wrapf(errUnexpectedResponse, "status %d", resp.StatusCode)
	}
	return &registration.RemoteError{
		StatusCode: resp.StatusCode,
		Fields:     env.Errors,
		Message:    env.Message,
	}
}

// encodeRegistration writes the registration as a multipart form.
func encodeRegistration(reg registration.Registration) ([]byte, string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	for _, fld := range reg.Fields() {
		if err := w.WriteField(fld[0], fld[1]); err != nil {
			return nil, "", errors.Wrapf(err, "writing %s", fld[0])
		}
	}

	if photo := reg.ProfilePhoto; photo != nil && len(photo.Data) > 0 {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="profile_photo"; filename=%q`, photo.Filename))
		h.Set("Content-Type", photo.ContentType)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", errors.Wrap(err, "creating profile_photo part")
		}
		if _, err := part.Write(photo.Data); err != nil {
			return nil, "", errors.Wrap(err, "writing profile_photo")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "closing multipart writer")
	}
	return body.Bytes(), w.FormDataContentType(), nil
}
