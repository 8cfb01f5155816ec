package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vladislavdragonenkov/ims/internal/domain"
	"github.com/vladislavdragonenkov/ims/internal/service/catalog"
)

// productPayload — тело запроса на создание товара.
type productPayload struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
	Status string  `json:"status"`
}

func (p productPayload) toInput() (catalog.CreateInput, error) {
	listedAt, err := parseISOTime(p.Date)
	if err != nil {
		return catalog.CreateInput{}, fmt.Errorf("product %q: %w", p.Name, err)
	}
	return catalog.CreateInput{
		Name:     p.Name,
		Price:    p.Price,
		ListedAt: listedAt,
		Status:   domain.ProductStatus(p.Status),
	}, nil
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	listing, err := s.catalog.ListProducts(callerIdentity(r))
	if err != nil {
		s.writeError(w, err)
		return
	}

	if listing.IncludeStatus {
		views := make([]productView, 0, len(listing.Products))
		for _, p := range listing.Products {
			views = append(views, toProductView(p))
		}
		writeJSON(w, http.StatusOK, views)
		return
	}

	views := make([]publicProductView, 0, len(listing.Products))
	for _, p := range listing.Products {
		views = append(views, toPublicProductView(p))
	}
	writeJSON(w, http.StatusOK, views)
}

// handleCreateProducts принимает либо один объект, либо упорядоченный
// список объектов; режим различается по первому значащему байту тела.
func (s *Server) handleCreateProducts(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.writeError(w, fmt.Errorf("read body: %w", err))
		return
	}

	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		s.createProductBatch(w, r, trimmed)
		return
	}
	s.createProductSingle(w, r, trimmed)
}

func (s *Server) createProductSingle(w http.ResponseWriter, r *http.Request, body []byte) {
	var payload productPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	in, err := payload.toInput()
	if err != nil {
		s.writeError(w, err)
		return
	}

	product, err := s.catalog.CreateProduct(callerIdentity(r), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toProductView(product))
}

func (s *Server) createProductBatch(w http.ResponseWriter, r *http.Request, body []byte) {
	var payloads []productPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	ins := make([]catalog.CreateInput, 0, len(payloads))
	for _, payload := range payloads {
		in, err := payload.toInput()
		if err != nil {
			// Пакет падает целиком с указанием виновного элемента.
			s.writeError(w, err)
			return
		}
		ins = append(ins, in)
	}

	products, err := s.catalog.CreateProducts(callerIdentity(r), ins)
	if err != nil {
		s.writeError(w, err)
		return
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, toProductView(p))
	}
	writeJSON(w, http.StatusCreated, views)
}

// changePayload — тело PUT/PATCH; отсутствующие поля остаются nil.
type changePayload struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Date  *string  `json:"date"`
}

func (p changePayload) toInput() (catalog.ChangeInput, error) {
	in := catalog.ChangeInput{Name: p.Name, Price: p.Price}
	if p.Date != nil {
		listedAt, err := parseISOTime(*p.Date)
		if err != nil {
			return catalog.ChangeInput{}, err
		}
		in.ListedAt = &listedAt
	}
	return in, nil
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	s.changeProduct(w, r, s.catalog.UpdateProduct)
}

func (s *Server) handlePatchProduct(w http.ResponseWriter, r *http.Request) {
	s.changeProduct(w, r, s.catalog.PatchProduct)
}

func (s *Server) changeProduct(
	w http.ResponseWriter,
	r *http.Request,
	apply func(domain.Identity, string, catalog.ChangeInput) (domain.Product, error),
) {
	var payload changePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "malformed request body"})
		return
	}

	in, err := payload.toInput()
	if err != nil {
		s.writeError(w, err)
		return
	}

	product, err := apply(callerIdentity(r), chi.URLParam(r, "id"), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toProductView(product))
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.catalog.DeleteProduct(callerIdentity(r), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}
