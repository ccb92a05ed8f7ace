package server

import (
	"html"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rshade/ecoshopper/internal/cli/pagination"
	"github.com/rshade/ecoshopper/internal/ecoscore"
	"github.com/rshade/ecoshopper/internal/logging"
	"github.com/rshade/ecoshopper/internal/session"
	"github.com/rshade/ecoshopper/internal/shop"
)

type productListResponse struct {
	Products   []shop.ScoredProduct `json:"products"`
	Pagination pagination.Meta      `json:"pagination"`
}

type scoreRequest struct {
	Name                string   `json:"name"`
	Description         string   `json:"description"`
	CarbonFootprint     *float64 `json:"carbon_footprint,omitempty"`
	RecyclabilityRating *int     `json:"recyclability_rating,omitempty"`
}

type feedbackRequest struct {
	Vote    session.Vote `json:"vote"`
	Comment string       `json:"comment"`
	Images  []string     `json:"images"`
}

type voteRequest struct {
	Vote session.Vote `json:"vote"`
}

// queryInt reads an integer query parameter; absent means 0.
func queryInt(r *http.Request, name string) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	var params pagination.Params
	for _, q := range []struct {
		name string
		dst  *int
	}{
		{"limit", &params.Limit},
		{"offset", &params.Offset},
		{"page", &params.Page},
		{"page_size", &params.PageSize},
	} {
		v, ok := queryInt(r, q.name)
		if !ok {
			writeError(w, http.StatusBadRequest, codeInvalidRequest, q.name+" must be an integer")
			return
		}
		*q.dst = v
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "invalid pagination: "+err.Error())
		return
	}

	field, order, err := pagination.ParseSort(r.URL.Query().Get("sort"), pagination.SortOrderDesc)
	if err != nil {
		writeShopError(w, err)
		return
	}
	products, err := pagination.NewProductSorter().Sort(s.shop.Scored(r.URL.Query().Get("category")), field, order)
	if err != nil {
		writeShopError(w, err)
		return
	}

	meta := pagination.NewMeta(params, len(products))
	writeJSON(w, http.StatusOK, productListResponse{
		Products:   pagination.Apply(params, products),
		Pagination: meta,
	})
}

// getProduct returns the detail view without counting it as a view.
func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	v, err := s.shop.Preview(chi.URLParam(r, "productID"))
	if err != nil {
		writeShopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// viewProduct records a view. Low-tier products need ?ack=true, the API's
// equivalent of accepting the eco warning.
func (s *Server) viewProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	preview, err := s.shop.Preview(id)
	if err != nil {
		writeShopError(w, err)
		return
	}
	if preview.RequiresDangerAck {
		if ack, _ := strconv.ParseBool(r.URL.Query().Get("ack")); !ack {
			writeError(w, http.StatusConflict, codeDangerAckRequired,
				"product scored poorly ("+strings.Join(preview.Result.DangerReasons, "; ")+"); repeat with ack=true to view it")
			return
		}
	}

	v, err := s.shop.View(id)
	if err != nil {
		writeShopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (s *Server) scoreText(w http.ResponseWriter, r *http.Request) {
	var req scoreRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" && strings.TrimSpace(req.Description) == "" {
		writeError(w, http.StatusBadRequest, codeInvalidRequest, "name or description is required")
		return
	}
	writeJSON(w, http.StatusOK, ecoscore.ScoreInput(ecoscore.Input{
		Name:                req.Name,
		Description:         req.Description,
		CarbonFootprint:     req.CarbonFootprint,
		RecyclabilityRating: req.RecyclabilityRating,
	}))
}

func (s *Server) submitFeedback(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	f, err := s.shop.SubmitFeedback(chi.URLParam(r, "productID"), req.Vote, s.plainText(req.Comment), req.Images)
	if err != nil {
		logging.FromContext(r.Context()).Debug().Ctx(r.Context()).
			Str("operation", "submit_feedback").
			Err(err).
			Msg("feedback rejected")
		writeShopError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// plainText strips markup from user text. The policy escapes entities for
// HTML output; comments are stored as text, so they are unescaped again.
func (s *Server) plainText(v string) string {
	return html.UnescapeString(s.sanitize.Sanitize(v))
}

func (s *Server) vote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}
	f, err := s.shop.Vote(chi.URLParam(r, "productID"), req.Vote)
	if err != nil {
		writeShopError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) getFeedback(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "productID")
	if _, err := s.shop.Score(id); err != nil {
		writeShopError(w, err)
		return
	}
	f, ok := s.shop.Feedback(id)
	if !ok {
		writeError(w, http.StatusNotFound, codeFeedbackNotFound, "no feedback for product "+id)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) listFeedback(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.shop.Store().Feedbacks())
}
