package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/describo/describo-backend/internal/service"
	"github.com/describo/describo-backend/internal/util"
)

type ContentHandler struct {
	content *service.ContentService
	auth    *service.AuthService
}

func NewContentHandler(content *service.ContentService, auth *service.AuthService) *ContentHandler {
	return &ContentHandler{content: content, auth: auth}
}

func (h *ContentHandler) Register(e *echo.Echo) {
	e.POST("/api/descriptions/text", h.generateFromText, OptionalAuth(h.auth))
	e.POST("/api/descriptions/image", h.generateFromImage, OptionalAuth(h.auth))
	e.GET("/api/history", h.history, RequireAuth(h.auth))
	e.GET("/api/styles", h.styles)
}

func (h *ContentHandler) generateFromText(c echo.Context) error {
	var req GenerateTextRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("invalid request body"))
	}
	account, _ := CurrentAccount(c)
	description, err := h.content.GenerateFromText(c.Request().Context(), account, req.ProductInfo, req.Style)
	if err != nil {
		return contentError(c, err)
	}
	return c.JSON(http.StatusOK, descriptionOut(description))
}

func (h *ContentHandler) generateFromImage(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error("image file is required"))
	}
	file, err := fileHeader.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, util.Error(service.ErrInvalidImage.Error()))
	}
	defer file.Close()

	account, _ := CurrentAccount(c)
	description, err := h.content.GenerateFromImage(c.Request().Context(), account, file, c.FormValue("style"))
	if err != nil {
		return contentError(c, err)
	}
	return c.JSON(http.StatusOK, descriptionOut(description))
}

func (h *ContentHandler) history(c echo.Context) error {
	account, ok := CurrentAccount(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, util.Error("authentication required"))
	}
	limit := 20
	if v, err := strconv.Atoi(c.QueryParam("limit")); err == nil && v > 0 && v <= 100 {
		limit = v
	}
	descriptions, err := h.content.History(c.Request().Context(), account.ID, limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, util.Error("unable to load history"))
	}
	out := make([]DescriptionOut, 0, len(descriptions))
	for i := range descriptions {
		out = append(out, descriptionOut(&descriptions[i]))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ContentHandler) styles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.content.Styles())
}

func contentError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrProductInfoRequired),
		errors.Is(err, service.ErrInvalidImage):
		return c.JSON(http.StatusBadRequest, util.Error(err.Error()))
	case errors.Is(err, service.ErrGenerationFailed):
		return c.JSON(http.StatusBadGateway, util.Error(service.ErrGenerationFailed.Error()))
	default:
		return c.JSON(http.StatusInternalServerError, util.Error("internal server error"))
	}
}
