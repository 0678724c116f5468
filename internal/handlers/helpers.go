package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "powcost/internal/errors"
	"powcost/internal/exchange"
	"powcost/internal/middleware"
)

// maxUploadBytes bounds import and restore uploads.
const maxUploadBytes = 32 << 20

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// parsePathID parses a positive integer path parameter.
// Returns ErrInvalidInput if the parameter is not a valid positive integer.
func parsePathID(c *gin.Context, param string) (int, error) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id <= 0 {
		return 0, apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// respondWithError writes a consistent JSON error response.
func respondWithError(c *gin.Context, err error) {
	middleware.RenderError(c, err)
}

// bindError converts a binding failure into an INVALID_INPUT error.
func bindError(err error) error {
	return apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
}

// sendDownload writes data as an attachment named name.
func sendDownload(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, contentType, data)
}

// readUpload returns the uploaded document: the "file" part of a multipart
// form, or the raw request body otherwise.
func readUpload(c *gin.Context) ([]byte, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidImportFile, err)
		}
		defer func() { _ = f.Close() }()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInvalidImportFile, err)
		}
		return data, nil
	}

	data, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidImportFile, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidImportFile, "Upload is empty")
	}
	return data, nil
}

// Amount is a numeric request field that also accepts numeric strings.
// Input that does not parse as a finite number reads as 0 instead of
// failing the request.
type Amount float64

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(exchange.ParseAmount(s))
		return nil
	}
	*a = Amount(exchange.ParseAmount(string(data)))
	return nil
}

// ptr converts an optional Amount to an optional float64.
func (a *Amount) ptr() *float64 {
	if a == nil {
		return nil
	}
	v := float64(*a)
	return &v
}
