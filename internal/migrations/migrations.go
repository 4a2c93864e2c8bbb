// Package migrations несёт схему базы как встроенные .sql файлы,
// чтобы применение не зависело от рабочего каталога процесса.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
