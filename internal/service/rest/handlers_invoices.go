package rest

import (
	"encoding/json"
	"net/http"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		OrderID string `json:"order_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	invoice, err := s.invoices.CreateInvoice(callerIdentity(r), payload.OrderID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":    "invoice created",
		"invoice_id": invoice.ID,
		"order_id":   invoice.OrderID,
		"status":     string(domain.OrderStatusPaid),
	})
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := s.invoices.ListInvoices(callerIdentity(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]invoiceView, 0, len(list))
	for _, inv := range list {
		views = append(views, toInvoiceView(inv))
	}
	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleWipeAll(w http.ResponseWriter, r *http.Request) {
	result, err := s.invoices.WipeAllData(callerIdentity(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message":          "all data deleted successfully",
		"orders_deleted":   result.OrdersDeleted,
		"invoices_deleted": result.InvoicesDeleted,
		"products_deleted": result.ProductsDeleted,
	})
}
