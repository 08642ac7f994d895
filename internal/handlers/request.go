package handlers

import (
	"errors"
	"net/http"
	"strconv"

	dom "github.com/Mahran1998/opsflow/internal/domain"
	"github.com/Mahran1998/opsflow/internal/dto"
	"github.com/Mahran1998/opsflow/internal/service"
	"github.com/Mahran1998/opsflow/internal/store"

	"github.com/gin-gonic/gin"
)

type RequestHandler struct {
	svc *service.RequestService
}

func NewRequestHandler(svc *service.RequestService) *RequestHandler {
	return &RequestHandler{svc: svc}
}

// Create godoc
// @Summary      Create a request
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateRequestRequest  true  "Request body"
// @Success      201   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Router       /requests [post]
func (h *RequestHandler) Create(c *gin.Context) {
	var req dto.CreateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	priority := dom.PriorityNormal
	if req.Priority != "" {
		p, ok := dom.ParsePriority(req.Priority)
		if !ok {
			fieldErrors(c, dom.FieldErrors{"priority": {"Invalid priority value."}})
			return
		}
		priority = p
	}

	r, err := h.svc.Create(c.Request.Context(), store.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    priority,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, requestToResponse(r))
}

// List godoc
// @Summary      List requests
// @Tags         requests
// @Produce      json
// @Param        status  query     string  false  "Exact status filter (New, InProgress, Done, Cancelled)"
// @Param        q       query     string  false  "Substring search over title/description"
// @Success      200  {object}  dto.ListRequestsResponse
// @Failure      400  {object}  dto.ValidationErrorResponse
// @Failure      500  {object}  map[string]string
// @Router       /requests [get]
func (h *RequestHandler) List(c *gin.Context) {
	var filter store.ListFilter
	if raw := c.Query("status"); raw != "" {
		s, ok := dom.ParseStatus(raw)
		if !ok {
			fieldErrors(c, dom.FieldErrors{"status": {"Invalid status value."}})
			return
		}
		filter.Status = &s
	}
	filter.Query = c.Query("q")

	list, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dto.ListRequestsResponse{Items: requestsToResponses(list)})
}

// GetByID godoc
// @Summary      Get a request by ID
// @Tags         requests
// @Produce      json
// @Param        id   path      int  true  "Request ID"
// @Success      200  {object}  dto.RequestResponse
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  dto.NotFoundResponse
// @Failure      500  {object}  map[string]string
// @Router       /requests/{id} [get]
func (h *RequestHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	r, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestToResponse(r))
}

// Update godoc
// @Summary      Update a request's status and/or notes
// @Tags         requests
// @Accept       json
// @Produce      json
// @Param        id    path      int  true  "Request ID"
// @Param        body  body      dto.UpdateRequestRequest  true  "Partial update"
// @Success      200   {object}  dto.RequestResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.NotFoundResponse
// @Failure      500   {object}  map[string]string
// @Router       /requests/{id} [patch]
func (h *RequestHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var status *dom.Status
	if req.Status != nil {
		s, ok := dom.ParseStatus(*req.Status)
		if !ok {
			fieldErrors(c, dom.FieldErrors{"status": {"Invalid status value."}})
			return
		}
		status = &s
	}

	r, err := h.svc.Update(c.Request.Context(), id, store.UpdateInput{
		Status: status,
		Notes:  req.Notes,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, requestToResponse(r))
}

// respondError translates store-level failures into the transport shapes:
// validation -> 400 field map, unknown id -> 404, anything else -> 500.
func respondError(c *gin.Context, err error) {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		fieldErrors(c, ve.Fields)
		return
	}
	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, dto.NotFoundResponse{Message: nf.Error()})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func fieldErrors(c *gin.Context, errs dom.FieldErrors) {
	c.JSON(http.StatusBadRequest, dto.ValidationErrorResponse{Errors: errs})
}

func parseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func requestToResponse(r dom.Request) dto.RequestResponse {
	return dto.RequestResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Status:      string(r.Status),
		Priority:    string(r.Priority),
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func requestsToResponses(list []dom.Request) []dto.RequestResponse {
	out := make([]dto.RequestResponse, len(list))
	for i := range list {
		out[i] = requestToResponse(list[i])
	}
	return out
}
