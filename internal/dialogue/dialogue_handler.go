package dialogue

import (
	"net/http"

	"leaveline/internal/shared/apperror"
	"leaveline/internal/shared/contextutil"
	"leaveline/internal/shared/response"
	"leaveline/internal/voice"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const markupContentType = "text/xml; charset=utf-8"

type Handler struct {
	service Service
	logger  *zap.Logger
}

func NewHandler(service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("dialogue.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("dialogue.handler")
	}
	return &Handler{service: service, logger: l}
}

// bindCallback parses the provider form. A malformed callback is a
// provider-side defect, so it gets a JSON error rather than markup.
func (h *Handler) bindCallback(c *gin.Context) (voice.Callback, bool) {
	var cb voice.Callback
	if err := c.ShouldBind(&cb); err != nil {
		h.logger.Warn("callback binding failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		httpErr := apperror.ToHTTP(apperror.MapValidationError(err))
		response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
		return voice.Callback{}, false
	}

	ctx := contextutil.WithCallID(c.Request.Context(), cb.CallID)
	c.Request = c.Request.WithContext(ctx)
	return cb, true
}

func (h *Handler) writeMarkup(c *gin.Context, m *voice.Markup) {
	body, err := m.Render()
	if err != nil {
		h.logger.Error("markup rendering failed", zap.Error(err))
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, markupContentType, body)
}

// writeServiceError speaks a generic apology. Internal detail never
// reaches the caller; the provider still needs valid markup and a 200.
func (h *Handler) writeServiceError(c *gin.Context, err error) {
	ctx := c.Request.Context()
	httpErr := apperror.ToHTTP(err)
	h.logger.Error("dialogue step failed",
		zap.String("path", c.FullPath()),
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("call_id", contextutil.GetCallID(ctx)),
		zap.String("code", httpErr.Code),
		zap.Error(err),
	)
	h.writeMarkup(c, voice.Prompt(
		"Sorry, we are having a technical problem. Please try again later. Goodbye.",
	))
}

func (h *Handler) Welcome(c *gin.Context) {
	cb, ok := h.bindCallback(c)
	if !ok {
		return
	}

	m, err := h.service.Welcome(c.Request.Context(), cb.CallID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeMarkup(c, m)
}

func (h *Handler) EmployeeID(c *gin.Context) {
	cb, ok := h.bindCallback(c)
	if !ok {
		return
	}

	m, err := h.service.EmployeeID(c.Request.Context(), cb.CallID, cb.Input())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeMarkup(c, m)
}

func (h *Handler) Menu(c *gin.Context) {
	cb, ok := h.bindCallback(c)
	if !ok {
		return
	}

	m, err := h.service.Menu(c.Request.Context(), cb.CallID, cb.Input())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeMarkup(c, m)
}

func (h *Handler) LeaveType(c *gin.Context) {
	cb, ok := h.bindCallback(c)
	if !ok {
		return
	}

	m, err := h.service.LeaveType(c.Request.Context(), cb.CallID, cb.Input())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeMarkup(c, m)
}

func (h *Handler) DateRange(c *gin.Context) {
	cb, ok := h.bindCallback(c)
	if !ok {
		return
	}

	m, err := h.service.DateRange(c.Request.Context(), cb.CallID, cb.Input())
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeMarkup(c, m)
}

func (h *Handler) Status(c *gin.Context) {
	cb, ok := h.bindCallback(c)
	if !ok {
		return
	}

	m, err := h.service.Status(c.Request.Context(), cb.CallID)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}
	h.writeMarkup(c, m)
}
