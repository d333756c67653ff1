package handlers

import (
	"net/http"

	"inkwell/internal/store"
)

// Audit exposes the admin audit log, newest entries first.
type Audit struct {
	Audit *store.AuditStore
}

// List returns a page of audit records.
func (h *Audit) List(w http.ResponseWriter, r *http.Request) {
	skip, limit := pagination(r)
	records, err := h.Audit.List(r.Context(), skip, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeData(w, http.StatusOK, records)
}
