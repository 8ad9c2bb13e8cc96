package echoapi

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-signup/core/student"
	logsvc "github.com/trezcool/masomo-signup/services/logger"
	"github.com/trezcool/masomo-signup/storage/inmem"
)

var pngHeader = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}

func setup(t *testing.T) (Server, *student.Service) {
	svc := student.NewService(inmem.NewStudentRepository(), nil)
	return NewServer(
		&Options{
			TestMode:       true,
			DisableReqLogs: true,
			StudentSvc:     svc,
			Logger:         logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
		},
	), svc
}

type httpTest struct {
	name     string
	body     []byte
	wantCode int
	wantData []byte
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	return req, httptest.NewRecorder()
}

// newFormRequest builds a multipart registration request, with the photo part when `photo` is set.
func newFormRequest(t *testing.T, path string, fields map[string]string, photoName string, photo []byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if photo != nil {
		part, err := w.CreateFormFile(photoField, photoName)
		require.NoError(t, err)
		_, err = part.Write(photo)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req, httptest.NewRecorder()
}

func formFields(ns student.NewStudent) map[string]string {
	return map[string]string{
		"name":                  ns.Name,
		"email":                 ns.Email,
		"phone":                 ns.Phone,
		"education_stage":       ns.EducationStage,
		"grade_level":           ns.GradeLevel,
		"birth_date":            ns.BirthDate,
		"gender":                ns.Gender,
		"guardian_name":         ns.GuardianName,
		"parent_phone":          ns.ParentPhone,
		"governorate":           ns.Governorate,
		"city":                  ns.City,
		"password":              ns.Password,
		"password_confirmation": ns.PasswordConfirmation,
		"role":                  ns.Role,
		"remember_me":           ns.RememberMe,
	}
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	require.NoError(t, err)
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code)
	if tt.wantData == nil {
		assert.Empty(t, rec.Body.String())
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	require.NoError(t, err, rec.Body.String())
	assert.True(t, ok, "data = %s; wantData %s", rec.Body.String(), tt.wantData)
}
