package httpapi

import (
	"net/http"

	"orderdesk/backend/internal/domain"
)

func (a *API) handleListPackages(w http.ResponseWriter, r *http.Request) {
	params, errs := listParams(r)
	if len(errs) > 0 {
		writeFailure(w, domain.NewValidationError(errs...))
		return
	}
	writeResult(w, http.StatusOK, a.service.ListPackages(r.Context(), params))
}

func (a *API) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	var input domain.PackageInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, a.service.CreatePackage(r.Context(), input))
}

func (a *API) handleGetPackage(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.GetPackage(r.Context(), pathID(r)))
}

func (a *API) handleUpdatePackage(w http.ResponseWriter, r *http.Request) {
	var patch domain.PackagePatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, a.service.UpdatePackage(r.Context(), pathID(r), patch))
}

func (a *API) handleDeletePackage(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.DeletePackage(r.Context(), pathID(r)))
}
