package rest

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	order, err := s.orders.PlaceOrder(payload.ProductID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toOrderView(order))
}

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	list, err := s.orders.ListOrders()
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]orderView, 0, len(list))
	for _, o := range list {
		views = append(views, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleEditOrderStatus(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	order, err := s.orders.EditOrderStatus(chi.URLParam(r, "id"), payload.Status)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toOrderView(order))
}

// handleFindOrders — GET /orders/find?from_date=...&to_date=...
// Обе границы обязательны, выборка строгая (границы исключаются).
func (s *Server) handleFindOrders(w http.ResponseWriter, r *http.Request) {
	fromRaw := r.URL.Query().Get("from_date")
	toRaw := r.URL.Query().Get("to_date")

	// Роль проверяется раньше разбора дат, чтобы не подсказывать анониму
	// формат параметров. Сервис перепроверит её ещё раз.
	if !callerIdentity(r).HasRole(domain.RoleAccountant) {
		s.writeError(w, domain.ErrForbidden)
		return
	}

	if fromRaw == "" || toRaw == "" {
		s.writeError(w, domain.ErrDateRangeRequired)
		return
	}

	from, err := parseISOTime(fromRaw)
	if err != nil {
		s.writeError(w, err)
		return
	}
	to, err := parseISOTime(toRaw)
	if err != nil {
		s.writeError(w, err)
		return
	}

	list, err := s.orders.FindByPeriod(callerIdentity(r), from, to)
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]orderView, 0, len(list))
	for _, o := range list {
		views = append(views, toOrderView(o))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleAcceptOrder(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	order, err := s.orders.AcceptOrder(callerIdentity(r), payload.OrderID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  "order accepted",
		"order_id": order.ID,
		"status":   string(order.Status),
	})
}
