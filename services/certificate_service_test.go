package services

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/anjiri1684/coded/logger"
)

type memoryUploader struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func (u *memoryUploader) Upload(_ context.Context, data []byte, publicID string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.uploads == nil {
		u.uploads = map[string][]byte{}
	}
	u.uploads[publicID] = data
	return "https://files.example.com/" + publicID, nil
}

func TestIssueCertificateOncePerModule(t *testing.T) {
	db := newTestDB(t)
	u := createUser(t, db, "ada")
	module, _ := createModule(t, db, "Basics", 1)

	var rendered string
	up := &memoryUploader{}
	svc := NewCertificateService(db, logger.Nop(), "CodEd", up, func(_ context.Context, html string) ([]byte, error) {
		rendered = html
		return []byte("%PDF"), nil
	})

	cert, err := svc.IssueForModule(context.Background(), u.ID, module.ID)
	if err != nil || cert == nil {
		t.Fatalf("issue: %v, %v", cert, err)
	}
	if !strings.Contains(rendered, "ada") || !strings.Contains(rendered, "Basics") {
		t.Fatalf("rendered html missing learner or module")
	}
	if !strings.HasPrefix(cert.CertificateURL, "https://files.example.com/certificates/") {
		t.Fatalf("url = %s", cert.CertificateURL)
	}

	again, err := svc.IssueForModule(context.Background(), u.ID, module.ID)
	if err != nil || again != nil {
		t.Fatalf("second issue: %v, %v", again, err)
	}
	if len(up.uploads) != 1 {
		t.Fatalf("uploads = %d, want 1", len(up.uploads))
	}

	list, err := svc.ListCertificates(as(u))
	if err != nil || len(list) != 1 || list[0].Module == nil {
		t.Fatalf("list: %+v, %v", list, err)
	}
}
