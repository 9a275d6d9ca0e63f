// Package fuzztests houses Go fuzz harnesses for codemap construction and
// offset resolution. Its goal is to guard against panics, gaps between
// segments and resolver disagreements on arbitrary inputs.
//
// Назначение: прогонять произвольные байты через codemap.NewWithOptions и
// проверять инварианты через testkit.
//
// Не делает: генерацию корпусов, запись файлов, выполнение CLI.
//
// Зависимости: internal/codemap, internal/testkit, internal/diagfmt.

package fuzztests
