// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"errors"
	"io/fs"

	"github.com/MKhiriev/go-church-sync/internal/connection"
	"github.com/MKhiriev/go-church-sync/internal/service"
)

// ErrNoServices is returned by New when the console has nothing to show.
var ErrNoServices = errors.New("tui: client services are not configured")

// humanizeError turns engine errors into operator-facing messages.
func humanizeError(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, service.ErrMalformedImport):
		return "O arquivo não é um backup válido. Nada foi alterado.\n" + err.Error()
	case errors.Is(err, service.ErrImportFailed):
		return "Não foi possível gravar o backup neste dispositivo. Nada foi alterado."
	case errors.Is(err, fs.ErrNotExist):
		return "Arquivo não encontrado."
	case errors.Is(err, fs.ErrPermission):
		return "Sem permissão para acessar o arquivo."
	case errors.Is(err, connection.ErrFallbackUnavailable):
		return "O modo offline não está disponível agora."
	default:
		return err.Error()
	}
}
