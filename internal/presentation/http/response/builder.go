package response

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/TongyunK/orderFood-system/pkg/errorbank"
)

// Builder assembles the envelope every kiosk endpoint responds with.
type Builder struct {
	ctx    echo.Context
	status int
	data   any
	err    error
}

// New instantiates a Builder for the provided request context.
func New(ctx echo.Context) *Builder {
	return &Builder{ctx: ctx, status: http.StatusOK}
}

// WithStatus overrides the response status code.
func (b *Builder) WithStatus(status int) *Builder {
	if status > 0 {
		b.status = status
	}
	return b
}

// WithData attaches a success payload.
func (b *Builder) WithData(data any) *Builder {
	b.data = data
	return b
}

// WithError records an error to be rendered.
func (b *Builder) WithError(err error) *Builder {
	b.err = err
	return b
}

// Build finalises and emits the HTTP response.
func (b *Builder) Build() error {
	if b.err == nil {
		payload := struct {
			Success bool `json:"success"`
			Data    any  `json:"data,omitempty"`
		}{Success: true, Data: b.data}
		return b.ctx.JSON(b.status, payload)
	}

	appErr := errorbank.From(b.err)
	status := b.status
	if status < http.StatusBadRequest {
		status = appErr.StatusCode()
	}
	payload := struct {
		Success bool `json:"success"`
		Error   struct {
			Kind    string         `json:"kind"`
			Message string         `json:"message"`
			Details map[string]any `json:"details,omitempty"`
		} `json:"error"`
	}{}
	payload.Error.Kind = string(appErr.Kind())
	payload.Error.Message = appErr.Message()
	payload.Error.Details = appErr.Details()
	return b.ctx.JSON(status, payload)
}
