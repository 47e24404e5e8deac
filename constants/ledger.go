package constants

// TimeLayout is the timestamp format written next to every identifier:
// day.month hour:minute, no year, no seconds.
const TimeLayout = "02.01 15:04"

// LegacyTimeLayout is the format an earlier bot wrote (trailing dot after
// the month). The stats engine still parses rows written that way.
const LegacyTimeLayout = "02.01. 15:04"

// DefaultTimezone is the civil time zone timestamps are rendered in.
const DefaultTimezone = "Europe/Moscow"

// DefaultSheetName is the worksheet holding the ledger.
const DefaultSheetName = "QR Codes"

// HeaderRow is reserved for column titles; the first data row is HeaderRow+1.
const HeaderRow = 1
