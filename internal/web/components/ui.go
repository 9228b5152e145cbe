package components

import (
	twmerge "github.com/Oudwins/tailwind-merge-go"
)

// Base classes. Callers pass overrides which win on conflict.
const (
	cardClass        = "rounded-lg border bg-white shadow-sm"
	badgeClass       = "inline-flex items-center rounded-md px-2.5 py-0.5 text-xs font-semibold"
	buttonClass      = "inline-flex items-center justify-center rounded-md border px-3 py-1.5 text-sm font-medium"
	buttonActive     = "bg-slate-900 text-white border-slate-900"
	buttonDisabled   = "pointer-events-none opacity-50"
	tableClass       = "w-full caption-bottom text-sm"
	headerCellClass  = "h-10 px-2 text-left align-middle font-medium text-slate-500"
	cellClass        = "p-2 align-middle"
	mutedTextClass   = "text-sm text-slate-500"
	errorBoxClass    = "rounded-md border border-red-300 bg-red-50 p-4 text-red-700"
	statBarTrack     = "h-2 w-full rounded-full bg-slate-100"
	statBarFillClass = "h-2 rounded-full bg-slate-900"
)

// Class merges a base class list with overrides.
func Class(base string, overrides ...string) string {
	return twmerge.Merge(append([]string{base}, overrides...)...)
}
