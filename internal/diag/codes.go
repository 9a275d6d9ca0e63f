package diag

import (
	"fmt"
)

type Code uint16

const (
	// Без кода: в выводе не печатается
	UnknownCode Code = 0

	// Директивы
	DirInfo          Code = 1000
	DirBadLineNumber Code = 1001
	DirLineOverflow  Code = 1002
	DirInvalidMarker Code = 1003

	// Ввод/вывод
	IOLoadFileError   Code = 4001
	IOContentTooLarge Code = 4002

	// Индекс и кэш
	IdxInfo      Code = 5000
	IdxStale     Code = 5001
	IdxCorrupt   Code = 5002
	IdxCacheFail Code = 5003

	ObsInfo    Code = 6000
	ObsTimings Code = 6001

	// Диагностики, заданные пользователем (premap annotate)
	UserReport Code = 9000
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		DirInfo:           "Directive information",
		DirBadLineNumber:  "line directive declares line 0",
		DirLineOverflow:   "line directive number overflows",
		DirInvalidMarker:  "invalid directive marker",
		IOLoadFileError:   "I/O load file error",
		IOContentTooLarge: "file too large to index",
		IdxInfo:           "Index information",
		IdxStale:          "cached index does not match file",
		IdxCorrupt:        "cached index is corrupt",
		IdxCacheFail:      "index cache unavailable",
		ObsInfo:           "Observability information",
		ObsTimings:        "Pipeline timings",
		UserReport:        "user report",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("DIR%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("IDX%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("USR%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
