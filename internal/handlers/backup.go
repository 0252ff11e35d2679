package handlers

import (
	"context"
	"net/http"

	"github.com/bertrandmbololbmm/caisse-app-render/internal/auth"
	"github.com/bertrandmbololbmm/caisse-app-render/internal/httpx"
)

// BackupPublisher queues a backup job. Implemented by the AMQP client;
// nil when no broker is configured.
type BackupPublisher interface {
	PublishBackup(ctx context.Context, requestedBy uint) error
}

// BackupHandler enqueues database backups. Fire-and-forget: the
// request returns as soon as the job is queued and the worker does the
// zipping and mailing on its own time.
type BackupHandler struct {
	publisher BackupPublisher
}

func NewBackupHandler(publisher BackupPublisher) *BackupHandler {
	return &BackupHandler{publisher: publisher}
}

func (h *BackupHandler) Backup(w http.ResponseWriter, r *http.Request) {
	if h.publisher == nil {
		httpx.NoticeRedirect(w, r, "/journal", "backup_unconfigured")
		return
	}
	userID, _ := auth.UserIDFromContext(r.Context())
	if err := h.publisher.PublishBackup(r.Context(), userID); err != nil {
		httpx.NoticeRedirect(w, r, "/journal", "backup_unconfigured")
		return
	}
	httpx.NoticeRedirect(w, r, "/journal", "backup_queued")
}
