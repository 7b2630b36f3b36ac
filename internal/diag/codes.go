package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Форматирование блока
	FmtInfo           Code = 1000
	FmtVerbatimLine   Code = 1001
	FmtRangeDims      Code = 1002
	FmtNotIdempotent  Code = 1003
	FmtNoAlignedLines Code = 1004
	FmtWouldChange    Code = 1005

	// Ввод/вывод
	IOInfo           Code = 4000
	IOLoadFileError  Code = 4001
	IOWriteFileError Code = 4002
	IOCacheError     Code = 4003

	// Конфигурация
	CfgInfo     Code = 5000
	CfgInvalid  Code = 5001
	CfgBadRange Code = 5002

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:       "Unknown error",
		FmtInfo:           "Formatter information",
		FmtVerbatimLine:   "Line left untouched",
		FmtRangeDims:      "Bracket group counts differ in block",
		FmtNotIdempotent:  "Second formatting pass changed the output",
		FmtNoAlignedLines: "Nothing to align in block",
		FmtWouldChange:    "Block is not aligned",
		IOInfo:            "I/O information",
		IOLoadFileError:   "I/O load file error",
		IOWriteFileError:  "I/O write file error",
		IOCacheError:      "Format cache error",
		CfgInfo:           "Configuration information",
		CfgInvalid:        "Invalid configuration",
		CfgBadRange:       "Invalid line range",
		ObsInfo:           "Observability information",
		ObsTimings:        "Pipeline timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("FMT%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
