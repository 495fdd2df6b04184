package httpapi

import (
	"net/http"
	"strconv"

	"orderdesk/backend/internal/domain"
)

func (a *API) handleListOrders(w http.ResponseWriter, r *http.Request) {
	params, errs := listParams(r)
	if len(errs) > 0 {
		writeFailure(w, domain.NewValidationError(errs...))
		return
	}

	if details, _ := strconv.ParseBool(r.URL.Query().Get("details")); details {
		writeResult(w, http.StatusOK, a.service.ListOrdersWithDetails(r.Context(), params))
		return
	}
	writeResult(w, http.StatusOK, a.service.ListOrders(r.Context(), params))
}

func (a *API) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var input domain.OrderInput
	if err := decodeJSON(w, r, &input); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, http.StatusCreated, a.service.CreateOrder(r.Context(), input))
}

func (a *API) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.GetOrder(r.Context(), pathID(r)))
}

func (a *API) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	var patch domain.OrderPatch
	if err := decodeJSON(w, r, &patch); err != nil {
		writeDecodeError(w, err)
		return
	}
	writeResult(w, http.StatusOK, a.service.UpdateOrder(r.Context(), pathID(r), patch))
}

func (a *API) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	writeResult(w, http.StatusOK, a.service.DeleteOrder(r.Context(), pathID(r)))
}
