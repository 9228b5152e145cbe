package components

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// DisplayName title-cases an upstream name, e.g. "mr-mime" -> "Mr Mime".
func DisplayName(name string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(name, "-", " "))
}

// FormatCount groups digits, e.g. 1302 -> "1,302".
func FormatCount(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

// FormatMeters renders a height already converted to metres.
func FormatMeters(m float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1f m", m)
}

// FormatKilograms renders a weight already converted to kilograms.
func FormatKilograms(kg float64) string {
	return message.NewPrinter(language.English).Sprintf("%.1f kg", kg)
}

var typeColors = map[string]string{
	"normal":   "bg-gray-400",
	"fire":     "bg-red-500",
	"water":    "bg-blue-500",
	"electric": "bg-yellow-400",
	"grass":    "bg-green-500",
	"ice":      "bg-blue-200",
	"fighting": "bg-red-700",
	"poison":   "bg-purple-500",
	"ground":   "bg-yellow-600",
	"flying":   "bg-indigo-400",
	"psychic":  "bg-pink-500",
	"bug":      "bg-green-400",
	"rock":     "bg-yellow-800",
	"ghost":    "bg-purple-700",
	"dragon":   "bg-indigo-700",
	"dark":     "bg-gray-800",
	"steel":    "bg-gray-500",
	"fairy":    "bg-pink-300",
}

// TypeColor returns the badge background for an elemental type.
func TypeColor(typ string) string {
	if c, ok := typeColors[strings.ToLower(typ)]; ok {
		return c
	}
	return "bg-gray-400"
}
