package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"proposal-service/internal/domain/proposal"
	apperrors "proposal-service/pkg/errors"

	"github.com/labstack/echo/v4"
)

const (
	contentTypeJSON          = "application/json"
	unknownFieldPrefix       = `json: unknown field "`
	maxStrictBodyBytes int64 = 4 << 20 // Signature payloads dominate; keep above SERVER_BODY_LIMIT.
)

// bindStrictJSON decodes exactly one JSON object into dst. Unknown keys and
// mistyped values come back as a *proposal.ValidationError naming the field.
func bindStrictJSON(c echo.Context, dst any) error {
	if !strings.HasPrefix(strings.ToLower(c.Request().Header.Get(echo.HeaderContentType)), contentTypeJSON) {
		return echo.NewHTTPError(http.StatusUnsupportedMediaType, msgContentTypeJSONRequired)
	}

	body := io.LimitReader(c.Request().Body, maxStrictBodyBytes)
	decoder := json.NewDecoder(body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return decodeError(err)
	}

	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
	}

	return nil
}

func decodeError(err error) error {
	if field, ok := strings.CutPrefix(err.Error(), unknownFieldPrefix); ok {
		return proposal.NewValidationError(strings.TrimSuffix(field, `"`), msgUnknownField)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return proposal.NewValidationError(typeErr.Field, msgInvalidFieldType)
	}

	var verr *proposal.ValidationError
	if errors.As(err, &verr) {
		return verr
	}

	return echo.NewHTTPError(http.StatusBadRequest, msgInvalidRequestBody)
}

func parseProposalID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param(paramID), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.BadRequest(msgInvalidProposalID)
	}
	return id, nil
}
