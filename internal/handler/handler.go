package handler

import (
	"errors"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"stroke-outcome-engine/internal/engine"
	"stroke-outcome-engine/internal/model"
)

type Handler struct {
	engine *engine.Engine
	log    zerolog.Logger
}

func New(e *engine.Engine, log zerolog.Logger) *Handler {
	return &Handler{engine: e, log: log}
}

// HandleRequest routes POST /projection and GET /healthz.
func (h *Handler) HandleRequest(ctx *fasthttp.RequestCtx) {
	start := time.Now()

	switch string(ctx.Path()) {
	case "/projection":
		h.handleProjection(ctx)
	case "/healthz":
		ctx.SetContentType("application/json")
		ctx.SetBodyString(`{"status":"ok"}`)
	default:
		writeError(ctx, fasthttp.StatusNotFound, "Not found")
	}

	h.log.Info().
		Str("method", string(ctx.Method())).
		Str("path", string(ctx.Path())).
		Int("status", ctx.Response.StatusCode()).
		Dur("latency", time.Since(start)).
		Msg("request")
}

func (h *Handler) handleProjection(ctx *fasthttp.RequestCtx) {
	if !ctx.IsPost() {
		writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req model.ProjectionRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	resp, err := h.engine.Process(ctx, &req)
	if err != nil {
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("projection failed")
		writeError(ctx, fasthttp.StatusInternalServerError, "Projection failed")
		return
	}

	body, err := json.Marshal(resp)
	if err != nil {
		writeError(ctx, fasthttp.StatusInternalServerError, "Encoding response failed")
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

func writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	body, _ := json.Marshal(model.ErrorResponse{
		Status:  status,
		Message: message,
	})
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}
