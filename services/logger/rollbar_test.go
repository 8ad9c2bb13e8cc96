package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStdLogger(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	l.Warn("step verification failed", errors.New("boom"), map[string]interface{}{"step": "personal"})
	assert.Equal(t, "WARN step verification failed\nboom\nmap[step:personal]\n", buf.String())

	buf.Reset()
	l.Debug("hello")
	assert.Equal(t, "DEBUG hello\n", buf.String())
}

func TestRollbarLogger_prepare(t *testing.T) {
	var buf bytes.Buffer
	l := NewStdLogger(log.New(&buf, "", 0))

	err := errors.New("boom")
	extras := map[string]interface{}{"a": 1}
	args := l.prepare("msg", []interface{}{err, 42, extras})
	assert.Equal(t, []interface{}{"msg", err, extras}, args)
	assert.Contains(t, buf.String(), "dropping unsupported arg int")
}
