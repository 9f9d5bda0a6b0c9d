package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FlexInt entero que acepta número JSON o string numérico ("5"), como envían los formularios del panel.
// null, "" o ausente dejan Set=false.
type FlexInt struct {
	Value int
	Set   bool
}

// IntOf construye un FlexInt con valor.
func IntOf(v int) FlexInt { return FlexInt{Value: v, Set: true} }

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = FlexInt{}
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		s = strings.TrimSpace(raw)
		if s == "" {
			*f = FlexInt{}
			return nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fl, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return fmt.Errorf("entero inválido: %q", s)
		}
		n = int(fl)
	}
	*f = FlexInt{Value: n, Set: true}
	return nil
}

func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return strconv.AppendInt(nil, int64(f.Value), 10), nil
}

// OrZero devuelve el valor o 0 si no fue enviado.
func (f FlexInt) OrZero() int {
	if !f.Set {
		return 0
	}
	return f.Value
}

// FlexString acepta string o número JSON (ej. talla 38 o "38").
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return fmt.Errorf("se esperaba texto o número: %s", b)
	}
	*f = FlexString(b)
	return nil
}

// Trimmed devuelve el valor sin espacios alrededor.
func (f FlexString) Trimmed() string { return strings.TrimSpace(string(f)) }
