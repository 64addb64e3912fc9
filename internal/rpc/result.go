package rpc

import (
	"bytes"
	"encoding/json"
)

// Result is the decoded outcome of a single remote call. It is either a
// Success or a Failure; no other implementations exist.
type Result interface {
	isResult()
}

// Success carries the raw `result` member of the response. Payload is nil
// when the backend returned `null` or omitted the member entirely.
type Success struct {
	Payload json.RawMessage
}

// Failure carries the `error` member of the response.
type Failure struct {
	Code    int
	Message string
	// Name and Subcode come from `error.data`. Name is the backend exception
	// class (for example "odoo.exceptions.AccessDenied"); Subcode is its
	// human readable message.
	Name    string
	Subcode string
}

func (Success) isResult() {}
func (Failure) isResult() {}

// request is the JSON-RPC envelope posted to the backend. Method is always
// the generic "call" dispatcher; the real target lives in Params.
type request struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  params `json:"params"`
	ID      uint64 `json:"id"`
}

type params struct {
	Service string `json:"service"`
	Method  string `json:"method"`
	Args    []any  `json:"args"`
}

// response mirrors the wire envelope. Absence of Error signals success even
// when Result is null.
type response struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result,omitempty"`
	Error  *responseError  `json:"error,omitempty"`
}

type responseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    *struct {
		Name    string `json:"name"`
		Message string `json:"message"`
	} `json:"data,omitempty"`
}

// result converts the optional-field envelope into the Result sum type.
func (r response) result() Result {
	if r.Error != nil {
		f := Failure{
			Code:    r.Error.Code,
			Message: r.Error.Message,
		}
		if r.Error.Data != nil {
			f.Name = r.Error.Data.Name
			f.Subcode = r.Error.Data.Message
		}
		return f
	}

	payload := r.Result
	if isNull(payload) {
		payload = nil
	}
	return Success{Payload: payload}
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
