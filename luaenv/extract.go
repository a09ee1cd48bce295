package luaenv

import (
	"time"

	lua "github.com/yuin/gopher-lua"
)

// epoch is the DATE/TIMESTAMP reference point, matching the engine's
// day-count/microsecond-count representation (SPEC_FULL.md §4.1.1).
var epoch = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)

func dateToTime(days int64) time.Time {
	return epoch.AddDate(0, 0, int(days))
}

func timestampToTime(micros int64) time.Time {
	return epoch.Add(time.Duration(micros) * time.Microsecond)
}

func hostExtractYearFromDate(L *lua.LState) int {
	days := int64(L.CheckNumber(1))
	L.Push(lua.LNumber(dateToTime(days).Year()))
	return 1
}

func hostExtractFromDate(L *lua.LState) int {
	days := int64(L.CheckNumber(1))
	part := L.CheckString(2)
	L.Push(lua.LNumber(datePart(dateToTime(days), part)))
	return 1
}

func hostExtractFromTimestamp(L *lua.LState) int {
	micros := int64(L.CheckNumber(1))
	part := L.CheckString(2)
	L.Push(lua.LNumber(datePart(timestampToTime(micros), part)))
	return 1
}

func datePart(t time.Time, part string) int {
	switch part {
	case "YEAR":
		return t.Year()
	case "MONTH":
		return int(t.Month())
	case "DAY":
		return t.Day()
	default:
		return 0
	}
}
