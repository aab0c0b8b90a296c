package utils

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
)

// AuditEntry est une ligne du journal d'audit.
type AuditEntry struct {
	ID         gocql.UUID
	UserID     string
	Action     string
	Resource   string
	ResourceID string
	NewValue   string
	IPAddress  string
	UserAgent  string
	Success    bool
	ErrorMsg   string
	Timestamp  time.Time
}

// AuditSink persiste les entrées d'audit.
type AuditSink interface {
	Write(entry AuditEntry) error
}

// ScyllaAuditSink écrit dans la table audit_logs du keyspace d'audit.
type ScyllaAuditSink struct {
	session *gocql.Session
}

const auditTableCQL = `CREATE TABLE IF NOT EXISTS audit_logs (
	id timeuuid PRIMARY KEY,
	user_id text,
	action text,
	resource text,
	resource_id text,
	new_value text,
	ip_address text,
	user_agent text,
	success boolean,
	error_msg text,
	timestamp timestamp
)`

func NewScyllaAuditSink(session *gocql.Session) (*ScyllaAuditSink, error) {
	if err := session.Query(auditTableCQL).Exec(); err != nil {
		return nil, fmt.Errorf("création table audit_logs: %w", err)
	}
	return &ScyllaAuditSink{session: session}, nil
}

func (s *ScyllaAuditSink) Write(e AuditEntry) error {
	return s.session.Query(`INSERT INTO audit_logs (
			id, user_id, action, resource, resource_id, new_value,
			ip_address, user_agent, success, error_msg, timestamp
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.UserID, e.Action, e.Resource, e.ResourceID, e.NewValue,
		e.IPAddress, e.UserAgent, e.Success, e.ErrorMsg, e.Timestamp,
	).Exec()
}

// LogAuditSink est le repli quand ScyllaDB n'est pas configuré.
type LogAuditSink struct{}

func (LogAuditSink) Write(e AuditEntry) error {
	log.Printf("📝 audit %s %s/%s user=%s success=%v %s", e.Action, e.Resource, e.ResourceID, e.UserID, e.Success, e.ErrorMsg)
	return nil
}

// Auditor enregistre les actions de façon asynchrone.
type Auditor struct {
	sink AuditSink
}

func NewAuditor(sink AuditSink) *Auditor {
	if sink == nil {
		sink = LogAuditSink{}
	}
	return &Auditor{sink: sink}
}

// LogAction enregistre une action réussie.
func (a *Auditor) LogAction(c *gin.Context, action, resource, resourceID string, newValue interface{}) {
	a.record(c, action, resource, resourceID, newValue, true, "")
}

// LogFailedAction enregistre une action échouée.
func (a *Auditor) LogFailedAction(c *gin.Context, action, resource, resourceID, errorMsg string) {
	a.record(c, action, resource, resourceID, nil, false, errorMsg)
}

func (a *Auditor) record(c *gin.Context, action, resource, resourceID string, newValue interface{}, success bool, errorMsg string) {
	if a == nil {
		return
	}
	entry := AuditEntry{
		ID:         gocql.TimeUUID(),
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Success:    success,
		ErrorMsg:   errorMsg,
		Timestamp:  time.Now(),
	}
	// Le contexte gin est recyclé après la requête : on copie ce qu'il faut avant le goroutine.
	if c != nil {
		if userID, ok := c.Get("user_id"); ok {
			entry.UserID = fmt.Sprint(userID)
		}
		entry.IPAddress = c.ClientIP()
		entry.UserAgent = c.GetHeader("User-Agent")
	}
	if newValue != nil {
		if b, err := json.Marshal(newValue); err == nil {
			entry.NewValue = string(b)
		}
	}

	go func() {
		if err := a.sink.Write(entry); err != nil {
			log.Printf("❌ Erreur enregistrement log audit: %v", err)
		}
	}()
}

// Actions d'audit
const (
	ActionProductCreate = "product.create"
	ActionProductUpdate = "product.update"
	ActionProductDelete = "product.delete"

	ActionOrderCreate = "order.create"
	ActionOrderUpdate = "order.update"
	ActionOrderCancel = "order.cancel"

	ActionUserCreate = "user.create"
	ActionUserUpdate = "user.update"
	ActionUserDelete = "user.delete"

	ActionLoginSuccess = "auth.login_success"
	ActionLoginFailed  = "auth.login_failed"

	ActionAdminWrite = "admin.write"
)

// Ressources d'audit
const (
	ResourceProduct = "product"
	ResourceOrder   = "order"
	ResourceUser    = "user"
	ResourceAuth    = "auth"
)
