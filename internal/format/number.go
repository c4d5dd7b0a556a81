package format

import (
	"fmt"
	"math"
	"strings"

	"github.com/agbru/iterprogress/progress"
)

// FormatNumberString inserts thousands separators into a decimal integer
// string, keeping a leading minus sign.
func FormatNumberString(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	if len(s) <= 3 {
		return sign + s
	}
	var sb strings.Builder
	sb.WriteString(sign)
	head := len(s) % 3
	if head > 0 {
		sb.WriteString(s[:head])
	}
	for i := head; i < len(s); i += 3 {
		if sb.Len() > len(sign) {
			sb.WriteByte(',')
		}
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

// FormatRate renders a throughput in items per second with a k or M suffix
// for large values.
func FormatRate(perSecond float64) string {
	switch {
	case math.IsNaN(perSecond):
		return "-"
	case math.IsInf(perSecond, 1):
		return "inf/s"
	case perSecond >= 1e6:
		return fmt.Sprintf("%.1fM/s", perSecond/1e6)
	case perSecond >= 1e3:
		return fmt.Sprintf("%.1fk/s", perSecond/1e3)
	default:
		return fmt.Sprintf("%.1f/s", perSecond)
	}
}

// FormatRecord renders a one-line summary of rec: item count, percentage
// when known, cumulative rate, smoothed rates when tracked, and ETA when an
// estimate exists.
func FormatRecord(name string, rec progress.Record) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s: %s items", name, FormatNumberString(fmt.Sprint(rec.NumDone())))
	if pct, ok := rec.Percent(); ok {
		fmt.Fprintf(&sb, " %.1f%%", pct)
	}
	sb.WriteString(" " + FormatRate(rec.Rate()))
	if r, ok := rec.RollingAvgRate(); ok {
		sb.WriteString(" rolling " + FormatRate(r))
	}
	if r, ok := rec.ExpAvgRate(); ok {
		sb.WriteString(" exp " + FormatRate(r))
	}
	if eta, ok := rec.ETA(); ok {
		sb.WriteString(" ETA " + FormatETA(eta))
	}
	return sb.String()
}
