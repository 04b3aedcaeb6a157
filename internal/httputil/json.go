package httputil

import (
	"io"
	"net/http"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

var validate = validator.New(validator.WithRequiredStructEnabled())

func WriteJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := sonic.ConfigDefault.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

// DecodeJSON reads the request body into dst and runs its validate tags.
// Failures are reported as a readable message for the client.
func DecodeJSON(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return errors.Wrap(err, "failed to read request body")
	}
	if len(body) == 0 {
		return errors.New("request body is empty")
	}
	if err := sonic.Unmarshal(body, dst); err != nil {
		return errors.New("request body is not valid JSON")
	}
	if err := validate.StructCtx(r.Context(), dst); err != nil {
		return validationMessage(err)
	}
	return nil
}

func validationMessage(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			parts = append(parts, fe.Field()+" failed "+fe.Tag()+"="+fe.Param())
		} else {
			parts = append(parts, fe.Field()+" failed "+fe.Tag())
		}
	}
	return errors.Newf("invalid request: %s", strings.Join(parts, ", "))
}
