package rest

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/vladislavdragonenkov/ims/internal/domain"
)

// isoLayouts — принимаемые форматы дат: полный RFC3339, дата-время без
// зоны и голая дата, как их присылают клиенты.
var isoLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseISOTime разбирает дату запроса; неудача — ErrDateFormatInvalid.
func parseISOTime(raw string) (time.Time, error) {
	for _, layout := range isoLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.ErrDateFormatInvalid
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError переводит доменную ошибку в структурированный ответ.
// Детали внутренних ошибок наружу не уходят.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusForError(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.WithError(err).Error("request failed")
		message = "internal server error"
	}
	writeJSON(w, status, map[string]string{"error": message})
}

// statusForError — единая карта таксономии ошибок на коды HTTP.
func statusForError(err error) int {
	switch {
	case domain.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrProductUnavailable):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOrderTransitionDenied),
		errors.Is(err, domain.ErrInvoiceOrderNotAccepted):
		return http.StatusBadRequest
	case domain.IsValidation(err):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// productView — служебное представление товара (со статусом).
type productView struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
}

// publicProductView — анонимное представление: поля статуса нет вовсе.
type publicProductView struct {
	ID    string  `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Date  string  `json:"date"`
}

func toProductView(p domain.Product) productView {
	return productView{
		ID:     p.ID,
		Name:   p.Name,
		Price:  p.Price,
		Date:   p.ListedAt.Format(time.RFC3339),
		Status: string(p.Status),
	}
}

func toPublicProductView(p domain.Product) publicProductView {
	return publicProductView{
		ID:    p.ID,
		Name:  p.Name,
		Price: p.Price,
		Date:  p.ListedAt.Format(time.RFC3339),
	}
}

// orderView — представление заказа в ответах API.
type orderView struct {
	OrderID   string  `json:"order_id"`
	ProductID string  `json:"product_id"`
	Price     float64 `json:"price"`
	Date      string  `json:"date"`
	Status    string  `json:"status"`
	Discount  string  `json:"discount"`
}

func toOrderView(o domain.Order) orderView {
	return orderView{
		OrderID:   o.ID,
		ProductID: o.ProductID,
		Price:     o.Price,
		Date:      o.PlacedAt.Format(time.RFC3339),
		Status:    string(o.Status),
		Discount:  string(o.Discount),
	}
}

// invoiceView — представление счёта в ответах API.
type invoiceView struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"order_id"`
	ProductName  string  `json:"product_name"`
	ProductPrice float64 `json:"product_price"`
	OrderDate    string  `json:"order_date"`
	InvoiceDate  string  `json:"invoice_date"`
}

func toInvoiceView(inv domain.Invoice) invoiceView {
	return invoiceView{
		ID:           inv.ID,
		OrderID:      inv.OrderID,
		ProductName:  inv.ProductName,
		ProductPrice: inv.ProductPrice,
		OrderDate:    inv.OrderPlacedAt.Format(time.RFC3339),
		InvoiceDate:  inv.IssuedAt.Format(time.RFC3339),
	}
}
