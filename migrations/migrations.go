package migrations

import "embed"

// FS contém os arquivos de migração goose, aplicados em ordem de versão.
//
//go:embed *.sql
var FS embed.FS
