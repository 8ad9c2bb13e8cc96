package emailsvc

import (
	"bytes"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-signup/core"
	logsvc "github.com/trezcool/masomo-signup/services/logger"
)

func testConf() *core.Config {
	return &core.Config{
		AppName: "Masomo",
		Email: core.EmailConfig{
			SendgridAPIKey: "SG.test",
			FromName:       "Masomo",
			FromAddress:    "no-reply@masomo.local",
		},
	}
}

func testLogger() core.Logger {
	return logsvc.NewStdLogger(log.New(io.Discard, "", 0))
}

func init() {
	_ = core.RegisterEmailTemplate("test",
		"Hello {{.Name}}",
		"<p>Hello {{.Name}}</p>",
	)
}

func TestConsoleService_SendMessages(t *testing.T) {
	var out bytes.Buffer
	svc := NewConsoleServiceMock(&out, testConf(), testLogger())

	svc.SendMessages(
		&core.EmailMessage{
			To:           []mail.Address{{Name: "Mona", Address: "mona@test.eg"}},
			Subject:      "Welcome",
			TemplateName: "test",
			TemplateData: map[string]string{"Name": "<Mona>"},
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "dropped"},
		&core.EmailMessage{To: []mail.Address{{Address: "x@test.eg"}}, TemplateName: "unknown"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "Hello <Mona>", sent[0].TextContent)
	assert.Equal(t, "<p>Hello &lt;Mona&gt;</p>", sent[0].HTMLContent)

	output := out.String()
	assert.Contains(t, output, "Subject: [Masomo] Welcome")
	assert.Contains(t, output, `To: "Mona" <mona@test.eg>`)
	assert.Contains(t, output, "Content-Type: text/html; charset=utf-8")
}

func TestSendgridService_send(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, sendgridEndpoint, r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(srv.Close)

	svc := NewSendgridService(testConf(), testLogger())
	svc.host = srv.URL

	msg := core.EmailMessage{
		To:          []mail.Address{{Name: "Mona", Address: "mona@test.eg"}},
		Subject:     "Welcome",
		TextContent: "Hello Mona",
	}
	require.NoError(t, svc.send(msg))
	assert.Equal(t, "Bearer SG.test", gotAuth)

	pers := gotBody["personalizations"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "[Masomo] Welcome", pers["subject"])
	content := gotBody["content"].([]interface{})
	require.Len(t, content, 1)
	assert.Equal(t, "text/plain", content[0].(map[string]interface{})["type"])
}

func TestSendgridService_send_rejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"errors":[{"message":"bad key"}]}`))
	}))
	t.Cleanup(srv.Close)

	svc := NewSendgridService(testConf(), testLogger())
	svc.host = srv.URL

	err := svc.send(core.EmailMessage{To: []mail.Address{{Address: "mona@test.eg"}}, TextContent: "x"})
	assert.EqualError(t, err, `sending email - status: 401 - body: {"errors":[{"message":"bad key"}]}`)
}
