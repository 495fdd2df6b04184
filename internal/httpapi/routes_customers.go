package httpapi

import (
	"net/http"

	"orderdesk/backend/internal/domain"
)

// handleListCustomers always includes per-status order counts.
func (a *API) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	params, errs := listParams(r)
	if len(errs) > 0 {
		writeFailure(w, domain.NewValidationError(errs...))
		return
	}
	writeResult(w, http.StatusOK, a.service.ListCustomersWithOrderCounts(r.Context(), params))
}

func (a *API) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var input domain.CustomerInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, a.service.CreateCustomer(r.Context(), input))
}

func (a *API) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.GetCustomer(r.Context(), pathID(r)))
}

func (a *API) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	var patch domain.CustomerPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, a.service.UpdateCustomer(r.Context(), pathID(r), patch))
}

func (a *API) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.DeleteCustomer(r.Context(), pathID(r)))
}
