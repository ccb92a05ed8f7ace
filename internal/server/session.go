package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/ecoshopper/internal/session"
	"github.com/rshade/ecoshopper/internal/shop"
)

type addItemRequest struct {
	ProductID string `json:"product_id"`
}

type addItemResponse struct {
	Product   shop.ScoredProduct `json:"product"`
	EcoChoice bool               `json:"eco_choice"`
	Cart      shop.CartSummary   `json:"cart"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type themeResponse struct {
	Theme session.Theme `json:"theme"`
}

type preferenceBody struct {
	Value *int `json:"value"`
}

func (s *Server) getCart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.Cart())
}

func (s *Server) addCartItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.ProductID == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "product_id is required")
		return
	}

	sp, err := s.shop.AddToCart(req.ProductID)
	if err != nil {
		writeShopError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addItemResponse{
		Product:   sp,
		EcoChoice: s.shop.Policy().Qualifies(sp.Result.Score),
		Cart:      s.shop.Cart(),
	})
}

func (s *Server) setCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req quantityRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Quantity == nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "quantity is required")
		return
	}
	s.shop.SetQuantity(chi.URLParam(r, "productID"), *req.Quantity)
	writeJSON(w, http.StatusOK, s.shop.Cart())
}

func (s *Server) removeCartItem(w http.ResponseWriter, r *http.Request) {
	s.shop.Remove(chi.URLParam(r, "productID"))
	writeJSON(w, http.StatusOK, s.shop.Cart())
}

func (s *Server) clearCart(w http.ResponseWriter, _ *http.Request) {
	s.shop.ClearCart()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) getStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.Dashboard())
}

func (s *Server) getTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.shop.Store().Theme()})
}

func (s *Server) toggleTheme(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, themeResponse{Theme: s.shop.Store().ToggleTheme()})
}

func (s *Server) getPreference(w http.ResponseWriter, _ *http.Request) {
	v := s.shop.Store().EcoPreference()
	writeJSON(w, http.StatusOK, preferenceBody{Value: &v})
}

func (s *Server) setPreference(w http.ResponseWriter, r *http.Request) {
	var req preferenceBody
	if !s.decodeBody(w, r, &req) {
		return
	}
	if req.Value == nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "value is required")
		return
	}
	if err := s.shop.SetEcoPreference(*req.Value); err != nil {
		writeShopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}
