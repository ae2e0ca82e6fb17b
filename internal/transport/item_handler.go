package transport

import (
	"errors"
	"net/http"

	"github.com/fptthinhgreenwich/qlkhohang/internal/listquery"
	"github.com/fptthinhgreenwich/qlkhohang/internal/middleware"
	"github.com/fptthinhgreenwich/qlkhohang/internal/service"
	"github.com/fptthinhgreenwich/qlkhohang/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// validateQuery holds the query parameters of the interactive validation endpoint
type validateQuery struct {
	Field string `validate:"omitempty,oneof=sku name category quantity unitPrice supplier status note"`
}

// ItemHandler handles HTTP requests for inventory items
type ItemHandler struct {
	itemService service.ItemService
	logger      *zap.Logger
}

// NewItemHandler creates a new ItemHandler
func NewItemHandler(itemService service.ItemService, logger *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		logger:      logger,
	}
}

// RegisterRoutes registers all item routes
func (h *ItemHandler) RegisterRoutes(r chi.Router) {
	r.Route("/items", func(r chi.Router) {
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Post("/validate", h.Validate)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List handles paginated, filtered item listing
func (h *ItemHandler) List(w http.ResponseWriter, r *http.Request) {
	res, err := h.itemService.List(r.Context(), listquery.ParamsFromValues(r.URL.Query()))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newListResponse(res))
}

// Get handles fetching a single item
func (h *ItemHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.itemService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, newItemResponse(item))
}

// Create handles item creation
func (h *ItemHandler) Create(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.Create(r.Context(), fields)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.logger.Info("Item created", zap.String("item_id", item.ID), zap.String("sku", item.SKU))
	middleware.RespondWithJSON(w, http.StatusCreated, newItemResponse(item))
}

// Update handles full replacement of an item
func (h *ItemHandler) Update(w http.ResponseWriter, r *http.Request) {
	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.Update(r.Context(), chi.URLParam(r, "id"), fields)
	if err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.logger.Info("Item updated", zap.String("item_id", item.ID), zap.String("sku", item.SKU))
	middleware.RespondWithJSON(w, http.StatusOK, newItemResponse(item))
}

// Delete handles item removal
func (h *ItemHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.itemService.Delete(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err)
		return
	}

	h.logger.Info("Item deleted", zap.String("item_id", id))
	middleware.RespondNoContent(w)
}

// Validate checks a form without storing it. With ?field=name only that
// field's verdict is returned.
func (h *ItemHandler) Validate(w http.ResponseWriter, r *http.Request) {
	query := validateQuery{Field: r.URL.Query().Get("field")}
	if err := middleware.ValidateRequest(query); err != nil {
		middleware.RespondWithFieldErrors(w, http.StatusBadRequest, service.MsgValidationFailed, middleware.FormatValidationErrors(err))
		return
	}

	fields, ok := h.decodeFields(w, r)
	if !ok {
		return
	}

	errs := validation.Errors{}
	if query.Field != "" {
		if msg := validation.ValidateField(query.Field, fields[query.Field], fields); msg != "" {
			errs[query.Field] = msg
		}
	} else {
		errs = validation.Validate(fields, false)
	}

	middleware.RespondWithJSON(w, http.StatusOK, ValidateResponse{
		Valid:  errs.Valid(),
		Errors: errs,
	})
}

func (h *ItemHandler) decodeFields(w http.ResponseWriter, r *http.Request) (validation.Fields, bool) {
	fields, err := middleware.DecodeFields(r)
	if err != nil {
		h.logger.Debug("Invalid request body", zap.Error(err))
		middleware.RespondWithError(w, http.StatusBadRequest, middleware.MsgInvalidBody)
		return nil, false
	}
	return fields, true
}

// respondWithServiceError maps service error kinds onto HTTP status codes
func (h *ItemHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = &service.Error{Kind: service.KindInternal, Message: service.MsgInternal, Err: err}
	}

	switch svcErr.Kind {
	case service.KindValidation:
		h.logger.Debug("Item validation failed", zap.Any("errors", svcErr.Fields))
		middleware.RespondWithFieldErrors(w, http.StatusBadRequest, svcErr.Message, svcErr.Fields)
	case service.KindConflict:
		h.logger.Debug("Item conflict", zap.Error(err))
		middleware.RespondWithFieldErrors(w, http.StatusConflict, svcErr.Message, svcErr.Fields)
	case service.KindNotFound:
		middleware.RespondWithError(w, http.StatusNotFound, svcErr.Message)
	default:
		h.logger.Error("Item operation failed",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		middleware.RespondWithError(w, http.StatusInternalServerError, service.MsgInternal)
	}
}
