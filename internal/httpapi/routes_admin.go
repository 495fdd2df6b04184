package httpapi

import (
	"net/http"
)

func (a *API) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.Dashboard(r.Context()))
}

func (a *API) handleExport(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.Export(r.Context()))
}

func (a *API) handleImport(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, a.service.Import(r.Context(), raw))
}
