package services

import (
	"errors"
	"log/slog"
	"model_inventory/inventory/schema"
	"net/http"
)

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	return e.err.Error()
}

func (e *codedError) Unwrap() error {
	return e.err
}

func CodedError(err error, code int) error {
	return &codedError{err: err, code: code}
}

func GetResponseCode(err error) int {
	var cerr *codedError
	if errors.As(err, &cerr) {
		return cerr.code
	}
	slog.Error("non coded error passed to GetResponseCode", "error", err)
	return http.StatusInternalServerError
}

// storeError maps document store failures onto the response taxonomy. The
// underlying driver error is logged but not leaked to the caller.
func storeError(op string, err error) error {
	if errors.Is(err, schema.ErrListingNotFound) {
		return CodedError(err, http.StatusNotFound)
	}
	slog.Error("store error "+op, "error", err)
	return CodedError(schema.ErrStoreAccessFailed, http.StatusInternalServerError)
}

func queryParam(w http.ResponseWriter, r *http.Request, key string) (string, bool) {
	params := r.URL.Query()
	if !params.Has(key) || params.Get(key) == "" {
		http.Error(w, "'"+key+"' query parameter missing", http.StatusBadRequest)
		return "", false
	}
	return params.Get(key), true
}
