// SPDX-FileCopyrightText: 2025 Gamers-Hell Community
// SPDX-License-Identifier: Apache-2.0

package eventapi

import (
	"errors"
	"net/http"
)

// ErrCasting indicates there was a middleware wiring mistake with the
// go-kit style encoders.
var ErrCasting = errors.New("casting error due to middleware wiring mistake")

type BadRequestErr struct {
	Message string
}

func (bre BadRequestErr) Error() string {
	return bre.Message
}

func (bre BadRequestErr) StatusCode() int {
	return http.StatusBadRequest
}

type NotFoundErr struct {
	Message string
}

func (nfe NotFoundErr) Error() string {
	return nfe.Message
}

func (nfe NotFoundErr) StatusCode() int {
	return http.StatusNotFound
}
