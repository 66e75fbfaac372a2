package utils

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/julienschmidt/httprouter"
)

var ErrBadID = errors.New("invalid id")

// ParamID reads a positive integer path parameter.
func ParamID(ps httprouter.Params, name string) (int64, error) {
	id, err := strconv.ParseInt(ps.ByName(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrBadID
	}
	return id, nil
}

// QueryInt reads an integer query parameter, falling back to def.
func QueryInt(r *http.Request, name string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil {
		return def
	}
	return n
}

// RegisterFromRequest returns the register id from the X-Register header
// or the register query parameter.
func RegisterFromRequest(r *http.Request) string {
	if reg := strings.TrimSpace(r.Header.Get("X-Register")); reg != "" {
		return reg
	}
	return strings.TrimSpace(r.URL.Query().Get("register"))
}
