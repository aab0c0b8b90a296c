package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chanSink chan AuditEntry

func (s chanSink) Write(e AuditEntry) error {
	s <- e
	return nil
}

func TestAuditorRecordsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sink := make(chanSink, 1)
	auditor := NewAuditor(sink)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/carts/checkout", nil)
	c.Request.Header.Set("User-Agent", "go-test")
	c.Set("user_id", int64(9))

	auditor.LogAction(c, ActionOrderCreate, ResourceOrder, "12", map[string]int{"total": 20})

	select {
	case e := <-sink:
		assert.Equal(t, ActionOrderCreate, e.Action)
		assert.Equal(t, ResourceOrder, e.Resource)
		assert.Equal(t, "12", e.ResourceID)
		assert.Equal(t, "9", e.UserID)
		assert.Equal(t, "go-test", e.UserAgent)
		assert.JSONEq(t, `{"total":20}`, e.NewValue)
		assert.True(t, e.Success)
	case <-time.After(2 * time.Second):
		require.Fail(t, "aucune entrée d'audit reçue")
	}
}

func TestAuditorFailedAction(t *testing.T) {
	sink := make(chanSink, 1)
	NewAuditor(sink).LogFailedAction(nil, ActionProductDelete, ResourceProduct, "3", "referenced")

	select {
	case e := <-sink:
		assert.False(t, e.Success)
		assert.Equal(t, "referenced", e.ErrorMsg)
		assert.Empty(t, e.NewValue)
	case <-time.After(2 * time.Second):
		require.Fail(t, "aucune entrée d'audit reçue")
	}
}

func TestNilAuditorIsNoop(t *testing.T) {
	var a *Auditor
	assert.NotPanics(t, func() { a.LogAction(nil, ActionUserCreate, ResourceUser, "1", nil) })
}
